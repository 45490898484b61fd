package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/storage/memory"
	"github.com/MrJamesThe3rd/tracker/internal/summary"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newStore(t *testing.T) (*ledger.Store, *memory.Store) {
	t.Helper()

	backend := memory.New()
	s := ledger.New(backend, ledger.DefaultKey, ledger.WithClock(fixedClock))
	s.Load(context.Background())

	return s, backend
}

func TestStore_Add(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t)

	draft := transaction.Draft{
		Type:        transaction.TypeIncome,
		Amount:      "100.00",
		Description: "Salary",
		Date:        "2024-01-01",
	}

	tx, err := s.Add(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), tx.ID)

	list := s.List()
	require.Len(t, list, 1)

	last := list[len(list)-1]
	assert.True(t, tx.Equal(last))
	assert.Equal(t, transaction.TypeIncome, last.Type)
	assert.True(t, last.Amount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, "Salary", last.Description)
	assert.Equal(t, "2024-01-01", last.Date.Format(time.DateOnly))

	totals := summary.Compute(list)
	assert.Equal(t, "100.00", totals.Income.StringFixed(2))
	assert.Equal(t, "0.00", totals.Expenses.StringFixed(2))
	assert.Equal(t, "100.00", totals.Net.StringFixed(2))

	stored, found, err := backend.Read(ctx, ledger.DefaultKey)
	require.NoError(t, err)
	require.True(t, found)

	persisted, err := transaction.Decode(stored)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.True(t, tx.Equal(persisted[0]))
}

func TestStore_Add_UniqueIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	seen := make(map[int64]struct{})

	var prev int64

	for range 5 {
		tx, err := s.Add(ctx, transaction.Draft{Type: transaction.TypeExpense, Amount: "1", Description: "tick"})
		require.NoError(t, err)

		_, dup := seen[tx.ID]
		assert.False(t, dup, "id %d issued twice", tx.ID)
		assert.Greater(t, tx.ID, prev)

		seen[tx.ID] = struct{}{}
		prev = tx.ID
	}
}

func TestStore_Add_Invalid(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		draft transaction.Draft
	}{
		{name: "EmptyAmount", draft: transaction.Draft{Type: transaction.TypeIncome, Amount: "", Description: "x", Date: "2024-01-01"}},
		{name: "ZeroAmount", draft: transaction.Draft{Type: transaction.TypeIncome, Amount: "0", Description: "x"}},
		{name: "NegativeAmount", draft: transaction.Draft{Type: transaction.TypeIncome, Amount: "-12.5", Description: "x"}},
		{name: "NonNumeric", draft: transaction.Draft{Type: transaction.TypeIncome, Amount: "lots", Description: "x"}},
		{name: "EmptyDescription", draft: transaction.Draft{Type: transaction.TypeExpense, Amount: "3", Description: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend := newStore(t)

			_, err := s.Add(ctx, transaction.Draft{Type: transaction.TypeIncome, Amount: "5", Description: "seed"})
			require.NoError(t, err)

			before := s.List()

			_, err = s.Add(ctx, tt.draft)

			var verr *transaction.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, before, s.List())

			persisted, _, err := backend.Read(ctx, ledger.DefaultKey)
			require.NoError(t, err)

			txs, err := transaction.Decode(persisted)
			require.NoError(t, err)
			assert.Len(t, txs, 1)
		})
	}
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		name      string
		setupMock func(m *ledger.MockBackend)
		wantLen   int
	}

	tests := []testCase{
		{
			name: "Absent",
			setupMock: func(m *ledger.MockBackend) {
				m.EXPECT().Read(gomock.Any(), ledger.DefaultKey).Return(nil, false, nil)
			},
			wantLen: 0,
		},
		{
			name: "Malformed",
			setupMock: func(m *ledger.MockBackend) {
				m.EXPECT().Read(gomock.Any(), ledger.DefaultKey).Return([]byte(`not json`), true, nil)
			},
			wantLen: 0,
		},
		{
			name: "ReadError",
			setupMock: func(m *ledger.MockBackend) {
				m.EXPECT().Read(gomock.Any(), ledger.DefaultKey).Return(nil, false, errors.New("disk gone"))
			},
			wantLen: 0,
		},
		{
			name: "Populated",
			setupMock: func(m *ledger.MockBackend) {
				m.EXPECT().Read(gomock.Any(), ledger.DefaultKey).Return([]byte(`[
					{"type":"income","amount":"100.00","description":"Salary","date":"2024-01-01","id":10},
					{"type":"expense","amount":"40.00","description":"Dinner","date":"2024-01-02","id":11}
				]`), true, nil)
			},
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			backend := ledger.NewMockBackend(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(backend)
			}

			s := ledger.New(backend, ledger.DefaultKey)
			got := s.Load(ctx)

			assert.Len(t, got, tt.wantLen)
			assert.Len(t, s.List(), tt.wantLen)
		})
	}
}

func TestStore_Load_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.Add(ctx, transaction.Draft{Type: transaction.TypeIncome, Amount: "100", Description: "Salary"})
	require.NoError(t, err)
	_, err = s.Add(ctx, transaction.Draft{Type: transaction.TypeExpense, Amount: "40", Description: "Dinner"})
	require.NoError(t, err)

	first := s.Load(ctx)
	second := s.Load(ctx)

	require.Len(t, first, 2)
	require.Len(t, second, 2)

	for i := range first {
		assert.True(t, first[i].Equal(second[i]))
	}
}

func TestStore_Load_ContinuesIDsAfterRestart(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	s := ledger.New(backend, ledger.DefaultKey, ledger.WithClock(fixedClock))
	s.Load(ctx)

	first, err := s.Add(ctx, transaction.Draft{Type: transaction.TypeIncome, Amount: "1", Description: "a"})
	require.NoError(t, err)

	restarted := ledger.New(backend, ledger.DefaultKey, ledger.WithClock(fixedClock))
	restarted.Load(ctx)

	second, err := restarted.Add(ctx, transaction.Draft{Type: transaction.TypeIncome, Amount: "1", Description: "b"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
	assert.Len(t, restarted.List(), 2)
}

func TestStore_Add_PersistFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := ledger.NewMockBackend(ctrl)
	backend.EXPECT().Read(gomock.Any(), ledger.DefaultKey).Return(nil, false, nil)
	backend.EXPECT().Write(gomock.Any(), ledger.DefaultKey, gomock.Any()).Return(errors.New("quota exceeded"))

	var notified int

	s := ledger.New(backend, ledger.DefaultKey,
		ledger.WithClock(fixedClock),
		ledger.WithListener(ledger.ListenerFunc(func(context.Context, ledger.Event) { notified++ })),
	)
	s.Load(ctx)

	tx, err := s.Add(ctx, transaction.Draft{Type: transaction.TypeExpense, Amount: "40", Description: "Dinner"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNotPersisted)

	var perr *ledger.PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ledger.DefaultKey, perr.Key)

	assert.NotZero(t, tx.ID)
	require.Len(t, s.List(), 1)
	assert.True(t, tx.Equal(s.List()[0]))
	assert.Zero(t, notified)

	backend.EXPECT().Write(gomock.Any(), ledger.DefaultKey, gomock.Any()).Return(nil)
	require.NoError(t, s.Persist(ctx))
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t)

	var events []ledger.Event

	s = ledger.New(backend, ledger.DefaultKey,
		ledger.WithClock(fixedClock),
		ledger.WithListener(ledger.ListenerFunc(func(_ context.Context, ev ledger.Event) { events = append(events, ev) })),
	)
	s.Load(ctx)

	a, err := s.Add(ctx, transaction.Draft{Type: transaction.TypeIncome, Amount: "1", Description: "a"})
	require.NoError(t, err)
	b, err := s.Add(ctx, transaction.Draft{Type: transaction.TypeIncome, Amount: "2", Description: "b"})
	require.NoError(t, err)

	removed, err := s.Remove(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, a.Equal(removed))

	list := s.List()
	require.Len(t, list, 1)
	assert.True(t, b.Equal(list[0]))

	_, err = s.Get(a.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = s.Remove(ctx, a.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	require.Len(t, events, 3)
	assert.Equal(t, ledger.EventAdded, events[0].Kind)
	assert.Equal(t, ledger.EventRemoved, events[2].Kind)
	assert.Equal(t, a.ID, events[2].Transaction.ID)

	reloaded := s.Load(ctx)
	require.Len(t, reloaded, 1)
	assert.Equal(t, b.ID, reloaded[0].ID)
}

func TestStore_AddBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("AllValid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		backend := ledger.NewMockBackend(ctrl)
		backend.EXPECT().Write(gomock.Any(), ledger.DefaultKey, gomock.Any()).Return(nil).Times(1)

		s := ledger.New(backend, ledger.DefaultKey, ledger.WithClock(fixedClock))

		txs, err := s.AddBatch(ctx, []transaction.Draft{
			{Type: transaction.TypeIncome, Amount: "100", Description: "Salary"},
			{Type: transaction.TypeExpense, Amount: "40", Description: "Dinner"},
		})
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.NotEqual(t, txs[0].ID, txs[1].ID)
		assert.Len(t, s.List(), 2)
	})

	t.Run("RejectsWholeBatch", func(t *testing.T) {
		s, _ := newStore(t)

		_, err := s.AddBatch(ctx, []transaction.Draft{
			{Type: transaction.TypeIncome, Amount: "100", Description: "Salary"},
			{Type: transaction.TypeExpense, Amount: "", Description: "Dinner"},
			{Type: transaction.TypeExpense, Amount: "3", Description: ""},
		})

		var berr *transaction.BatchError
		require.ErrorAs(t, err, &berr)
		assert.Len(t, berr.Errors, 2)
		assert.ErrorIs(t, berr.Errors[1], transaction.ErrInvalidAmount)
		assert.ErrorIs(t, berr.Errors[2], transaction.ErrEmptyDescription)
		assert.Empty(t, s.List())
	})

	t.Run("Empty", func(t *testing.T) {
		s, _ := newStore(t)

		txs, err := s.AddBatch(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}

func TestStore_List_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.Add(ctx, transaction.Draft{Type: transaction.TypeIncome, Amount: "1", Description: "a"})
	require.NoError(t, err)

	list := s.List()
	list[0].Description = "tampered"

	assert.Equal(t, "a", s.List()[0].Description)
}

func TestStore_ListenerRunsOutsideLock(t *testing.T) {
	ctx := context.Background()

	var (
		s    *ledger.Store
		seen []int
	)

	s = ledger.New(memory.New(), ledger.DefaultKey,
		ledger.WithClock(fixedClock),
		ledger.WithListener(ledger.ListenerFunc(func(context.Context, ledger.Event) {
			seen = append(seen, len(s.List()))
		})),
	)
	s.Load(ctx)

	tx, err := s.Add(ctx, transaction.Draft{Type: transaction.TypeIncome, Amount: "5", Description: "a"})
	require.NoError(t, err)

	_, err = s.AddBatch(ctx, []transaction.Draft{{Type: transaction.TypeExpense, Amount: "1", Description: "b"}})
	require.NoError(t, err)

	_, err = s.Remove(ctx, tx.ID)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 1}, seen)
}
