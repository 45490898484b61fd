package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/tracker/internal/encoding"
)

func TestToUTF8(t *testing.T) {
	const text = "type,amount,description,date\nexpense,4.50,Café crème,2024-01-02\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	require.NoError(t, err)

	type testCase struct {
		name         string
		input        []byte
		wantCharsets []string
	}

	tests := []testCase{
		{name: "PlainUTF8", input: []byte(text), wantCharsets: []string{encoding.UTF8}},
		{name: "UTF8WithBOM", input: append([]byte{0xEF, 0xBB, 0xBF}, text...), wantCharsets: []string{encoding.UTF8}},
		{name: "UTF16LittleEndian", input: utf16, wantCharsets: []string{encoding.UTF16LE}},
		// chardet cannot tell the Latin-1 family apart on a short sample.
		{name: "Windows1252", input: latin1, wantCharsets: []string{encoding.Windows1252, encoding.ISO88599}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.ToUTF8(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Contains(t, tt.wantCharsets, charset)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, text, string(got))
		})
	}
}

func TestToUTF8_Empty(t *testing.T) {
	r, charset, err := encoding.ToUTF8(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
