// Package sqlstore keeps ledger records in the ledger_records table of a
// PostgreSQL or SQLite database.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/tracker/internal/database"
)

type Store struct {
	db          *sql.DB
	readQuery   string
	upsertQuery string
}

func New(db *sql.DB, dialect database.Dialect) *Store {
	s := &Store{
		db: db,
		readQuery: `
			SELECT value
			FROM ledger_records
			WHERE key = $1`,
		upsertQuery: `
			INSERT INTO ledger_records (key, value, updated_at)
			VALUES ($1, $2, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	}

	if dialect == database.DialectSQLite {
		s.readQuery = `
			SELECT value
			FROM ledger_records
			WHERE key = ?`
		s.upsertQuery = `
			INSERT INTO ledger_records (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	}

	return s
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, s.readQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("reading ledger record: %w", err)
	}

	return value, true, nil
}

func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.upsertQuery, key, data); err != nil {
		return fmt.Errorf("writing ledger record: %w", err)
	}

	return nil
}
