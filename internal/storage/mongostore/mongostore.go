// Package mongostore keeps each ledger record as one MongoDB document whose
// _id is the ledger key.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Decoder is satisfied by *mongo.SingleResult.
type Decoder interface {
	Decode(v any) error
}

// Collection is the subset of *mongo.Collection the store needs.
type Collection interface {
	FindOne(ctx context.Context, filter any) Decoder
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

// MongoCollection adapts *mongo.Collection to Collection.
type MongoCollection struct {
	*mongo.Collection
}

func (c *MongoCollection) FindOne(ctx context.Context, filter any) Decoder {
	return c.Collection.FindOne(ctx, filter)
}

type document struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Store struct {
	coll Collection
	now  func() time.Time
}

func New(coll Collection) *Store {
	return &Store{coll: coll, now: time.Now}
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var doc document

	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("finding ledger document: %w", err)
	}

	return doc.Value, true, nil
}

func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	doc := document{Key: key, Value: data, UpdatedAt: s.now().UTC()}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replacing ledger document: %w", err)
	}

	return nil
}

// Connect dials uri and returns the ledger collection together with the
// client, which the caller must disconnect.
func Connect(ctx context.Context, uri, db, collection string) (*mongo.Client, *MongoCollection, error) {
	slog.DebugContext(ctx, "connecting to mongodb", "database", db, "collection", collection)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return client, &MongoCollection{client.Database(db).Collection(collection)}, nil
}
