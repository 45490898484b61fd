package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeResult struct {
	doc *document
	err error
}

func (r fakeResult) Decode(v any) error {
	if r.err != nil {
		return r.err
	}

	*(v.(*document)) = *r.doc

	return nil
}

type fakeCollection struct {
	docs       map[string]document
	replaceErr error
	upserts    int
}

func (c *fakeCollection) FindOne(_ context.Context, filter any) Decoder {
	key := filter.(bson.M)["_id"].(string)

	doc, ok := c.docs[key]
	if !ok {
		return fakeResult{err: mongo.ErrNoDocuments}
	}

	return fakeResult{doc: &doc}
}

func (c *fakeCollection) ReplaceOne(_ context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	if c.replaceErr != nil {
		return nil, c.replaceErr
	}

	if len(opts) == 0 || opts[0].Upsert == nil || !*opts[0].Upsert {
		return nil, errors.New("expected upsert")
	}

	doc := replacement.(document)
	c.docs[filter.(bson.M)["_id"].(string)] = doc
	c.upserts++

	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	coll := &fakeCollection{docs: map[string]document{}}
	s := New(coll)
	s.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	_, found, err := s.Read(ctx, "transactions")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Write(ctx, "transactions", []byte(`[]`)))

	got, found, err := s.Read(ctx, "transactions")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(got))
	assert.Equal(t, 1, coll.upserts)
	assert.Equal(t, "transactions", coll.docs["transactions"].Key)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("FindFails", func(t *testing.T) {
		s := New(&failingFind{})

		_, _, err := s.Read(ctx, "transactions")
		assert.Error(t, err)
	})

	t.Run("ReplaceFails", func(t *testing.T) {
		s := New(&fakeCollection{docs: map[string]document{}, replaceErr: errors.New("not primary")})

		err := s.Write(ctx, "transactions", []byte(`[]`))
		assert.ErrorContains(t, err, "not primary")
	})
}

type failingFind struct {
	fakeCollection
}

func (f *failingFind) FindOne(context.Context, any) Decoder {
	return fakeResult{err: errors.New("server selection timeout")}
}
