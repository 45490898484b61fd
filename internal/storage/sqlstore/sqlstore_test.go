package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tracker/internal/database"
	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/storage/sqlstore"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

func newSQLiteStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "data", "ledger.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return sqlstore.New(db, database.DialectSQLite)
}

func TestStore_ReadWrite_SQLite(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	_, found, err := s.Read(ctx, "transactions")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Write(ctx, "transactions", []byte(`[]`)))
	require.NoError(t, s.Write(ctx, "transactions", []byte(`[{"a":1}]`)))
	require.NoError(t, s.Write(ctx, "transactions:alice", []byte(`[]`)))

	got, found, err := s.Read(ctx, "transactions")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"a":1}]`, string(got))
}

func TestStore_LedgerSurvivesRestart_SQLite(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	first := ledger.New(s, ledger.DefaultKey)
	first.Load(ctx)

	added, err := first.Add(ctx, transaction.Draft{
		Type:        transaction.TypeIncome,
		Amount:      "100.00",
		Description: "Salary",
		Date:        "2024-01-01",
	})
	require.NoError(t, err)

	second := ledger.New(s, ledger.DefaultKey)
	got := second.Load(ctx)

	require.Len(t, got, 1)
	assert.True(t, added.Equal(got[0]))
}
