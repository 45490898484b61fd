package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tracker/internal/storage/memory"
)

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, found, err := s.Read(ctx, "transactions")
	require.NoError(t, err)
	assert.False(t, found)

	payload := []byte(`[]`)
	require.NoError(t, s.Write(ctx, "transactions", payload))

	payload[0] = 'x'

	got, found, err := s.Read(ctx, "transactions")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(got))
}
