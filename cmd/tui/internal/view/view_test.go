package view

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/storage/memory"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

func newStore(t *testing.T) *ledger.Store {
	t.Helper()

	s := ledger.New(memory.New(), ledger.DefaultKey)
	s.Load(t.Context())

	return s
}

func TestAddModel_DefaultsDateToToday(t *testing.T) {
	m := NewAddModel(newStore(t), time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC))

	assert.Equal(t, "2024-03-09", m.fields.Date)
	assert.Equal(t, transaction.TypeExpense, m.fields.Type)
}

func TestAddModel_ValidationErrorKeepsInput(t *testing.T) {
	store := newStore(t)

	m := NewAddModel(store, time.Now())
	m.fields.Amount = "-5"
	m.fields.Description = "Coffee"

	msg := addCmd(store, m.fields.draft())()
	result, ok := msg.(addResultMsg)
	require.True(t, ok)
	require.Error(t, result.err)

	updated, _ := m.Update(result)
	m = updated.(AddModel)

	assert.Contains(t, m.err, "amount")
	assert.Equal(t, "-5", m.fields.Amount)
	assert.Equal(t, "Coffee", m.fields.Description)
	assert.Empty(t, store.List())
}

func TestAddModel_Saved(t *testing.T) {
	store := newStore(t)

	m := NewAddModel(store, time.Now())
	m.fields.Type = transaction.TypeIncome
	m.fields.Amount = "100"
	m.fields.Description = "Salary"

	result := addCmd(store, m.fields.draft())().(addResultMsg)
	require.NoError(t, result.err)

	_, cmd := m.Update(result)
	require.NotNil(t, cmd)

	saved, ok := cmd().(SavedMsg)
	require.True(t, ok)
	assert.Contains(t, saved.Status, "Salary")
	assert.Len(t, store.List(), 1)
}

func TestAddModel_PersistFailureStillSaves(t *testing.T) {
	m := NewAddModel(newStore(t), time.Now())

	_, cmd := m.Update(addResultMsg{
		tx:  transaction.Transaction{Description: "Rent"},
		err: &ledger.PersistError{Key: ledger.DefaultKey, Err: errors.New("disk full")},
	})
	require.NotNil(t, cmd)

	saved, ok := cmd().(SavedMsg)
	require.True(t, ok)
	assert.Contains(t, saved.Status, "could not be saved")
}

func TestAddModel_CompletedFormSubmitsOnce(t *testing.T) {
	store := newStore(t)

	m := NewAddModel(store, time.Now())
	m.fields.Amount = "12"
	m.fields.Description = "Lunch"
	m.form.State = huh.StateCompleted

	var cmds []tea.Cmd

	for _, msg := range []tea.Msg{
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.WindowSizeMsg{Width: 80, Height: 24},
		tea.KeyMsg{Type: tea.KeyEnter},
	} {
		updated, cmd := m.Update(msg)
		m = updated.(AddModel)

		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	require.Len(t, cmds, 1)

	result, ok := cmds[0]().(addResultMsg)
	require.True(t, ok)
	require.NoError(t, result.err)
	assert.Len(t, store.List(), 1)

	updated, _ := m.Update(result)
	assert.False(t, updated.(AddModel).submitting)
}

func TestImportModel_CompletedFormSubmitsOnce(t *testing.T) {
	m := NewImportModel(newStore(t))
	*m.path = "missing.csv"
	m.form.State = huh.StateCompleted

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ImportModel)
	require.NotNil(t, cmd)

	updated, again := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(ImportModel)
	assert.Nil(t, again)

	result, ok := cmd().(importResultMsg)
	require.True(t, ok)
	require.Error(t, result.err)

	updated, _ = m.Update(result)
	m = updated.(ImportModel)
	assert.False(t, m.submitting)
	assert.NotEmpty(t, m.err)
}

func TestLedgerModel_DeleteSelected(t *testing.T) {
	store := newStore(t)

	for _, desc := range []string{"First", "Second"} {
		_, err := store.Add(t.Context(), transaction.Draft{Type: transaction.TypeIncome, Amount: "1", Description: desc})
		require.NoError(t, err)
	}

	m := NewLedgerModel(store, "USD")
	require.Len(t, m.txs, 2)
	assert.Equal(t, "Second", m.txs[0].Description)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)

	updated, _ := m.Update(cmd())
	m = updated.(LedgerModel)

	require.Len(t, m.txs, 1)
	assert.Equal(t, "First", m.txs[0].Description)
	assert.Contains(t, m.status, "Second")
}

func TestTimeframe_Filter(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, 3, 13, 18, 30, 0, 0, time.UTC)

	day := func(d int, m time.Month) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

	type testCase struct {
		name      string
		timeframe Timeframe
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{name: "ThisWeek", timeframe: TimeframeThisWeek, wantStart: day(11, time.March), wantEnd: day(17, time.March)},
		{name: "ThisMonth", timeframe: TimeframeThisMonth, wantStart: day(1, time.March), wantEnd: day(31, time.March)},
		{name: "LastMonth", timeframe: TimeframeLastMonth, wantStart: day(1, time.February), wantEnd: day(29, time.February)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.timeframe.Filter(now)
			require.NotNil(t, f.StartDate)
			require.NotNil(t, f.EndDate)
			assert.Equal(t, tt.wantStart, *f.StartDate)
			assert.Equal(t, tt.wantEnd, *f.EndDate)
		})
	}

	assert.Equal(t, transaction.Filter{}, TimeframeAll.Filter(now))
	assert.Equal(t, TimeframeAll, TimeframeLastMonth.Next())
}
