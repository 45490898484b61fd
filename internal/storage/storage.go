// Package storage selects and opens the ledger backend named in the config.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/tracker/internal/config"
	"github.com/MrJamesThe3rd/tracker/internal/database"
	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/storage/file"
	"github.com/MrJamesThe3rd/tracker/internal/storage/memory"
	"github.com/MrJamesThe3rd/tracker/internal/storage/mongostore"
	"github.com/MrJamesThe3rd/tracker/internal/storage/sqlstore"
)

type Kind string

const (
	KindMemory   Kind = "memory"
	KindFile     Kind = "file"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindMongo    Kind = "mongo"
)

// Open returns the configured backend and a cleanup func releasing its
// resources. cleanup is never nil.
func Open(ctx context.Context, cfg *config.Config) (ledger.Backend, func(), error) {
	noop := func() {}

	switch Kind(cfg.Storage.Backend) {
	case KindMemory:
		slog.Warn("using in-memory storage, transactions will not survive a restart")
		return memory.New(), noop, nil

	case KindFile:
		s, err := file.New(cfg.Storage.Dir)
		if err != nil {
			return nil, noop, err
		}

		return s, noop, nil

	case KindSQLite:
		db, err := database.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("opening sqlite: %w", err)
		}

		return sqlstore.New(db, database.DialectSQLite), func() { db.Close() }, nil

	case KindPostgres:
		db, err := database.NewPostgres(cfg.ConnectionString())
		if err != nil {
			return nil, noop, fmt.Errorf("opening postgres: %w", err)
		}

		return sqlstore.New(db, database.DialectPostgres), func() { db.Close() }, nil

	case KindMongo:
		client, coll, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, noop, err
		}

		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("failed to disconnect from mongodb", "error", err)
			}
		}

		return mongostore.New(coll), cleanup, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
}
