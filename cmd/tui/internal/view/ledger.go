package view

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/summary"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	labelStyle   = lipgloss.NewStyle().Faint(true)
	panelStyle   = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// LedgerModel shows the totals panel above the transaction table.
type LedgerModel struct {
	CommonModel
	store    *ledger.Store
	currency string
	now      func() time.Time

	table     table.Model
	txs       []transaction.Transaction
	timeframe Timeframe
	status    string
}

func NewLedgerModel(store *ledger.Store, currency string) LedgerModel {
	columns := []table.Column{
		{Title: "ID", Width: 14},
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := LedgerModel{
		store:    store,
		currency: currency,
		now:      time.Now,
		table:    t,
	}
	m.Refresh()

	return m
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	return "a: add | i: import | d: delete | f: timeframe | q: quit"
}

func (m LedgerModel) Init() tea.Cmd {
	return nil
}

// Refresh reloads the table from the store.
func (m *LedgerModel) Refresh() {
	filter := m.timeframe.Filter(m.now())
	m.txs = filter.Apply(m.store.List())

	// Newest first.
	slices.Reverse(m.txs)

	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			strconv.FormatInt(tx.ID, 10),
			FormatDate(tx.Date),
			string(tx.Type),
			FormatSigned(tx, m.currency),
			tx.Description,
		})
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// SetStatus shows a one-line message above the table.
func (m *LedgerModel) SetStatus(s string) {
	m.status = s
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case removedMsg:
		switch {
		case msg.err == nil:
			m.status = fmt.Sprintf("Deleted %q.", msg.tx.Description)
		case errors.Is(msg.err, ledger.ErrNotPersisted):
			m.status = fmt.Sprintf("Deleted %q, but it could not be saved: %v", msg.tx.Description, msg.err)
		default:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.Refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-14, 5))

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "d", "delete":
			return m, m.removeCmd()
		case "f":
			m.timeframe = m.timeframe.Next()
			m.Refresh()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) View() string {
	totals := summary.Compute(m.txs)

	panel := panelStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		m.totalCell("Income", incomeStyle.Render(FormatAmount(totals.Income, m.currency))),
		m.totalCell("Expenses", expenseStyle.Render(FormatAmount(totals.Expenses, m.currency))),
		m.totalCell("Net", m.netStyle(totals).Render(FormatAmount(totals.Net, m.currency))),
	))

	header := fmt.Sprintf("[f] %s | %d transactions", activeStyle(m.timeframe.String()), totals.Count)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left, panel, header, tableView)

	if len(m.txs) == 0 {
		content = lipgloss.JoinVertical(lipgloss.Left, content, labelStyle.Render("No transactions yet. Press a to add one."))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m LedgerModel) totalCell(label, value string) string {
	return lipgloss.NewStyle().Width(20).Render(labelStyle.Render(label) + "\n" + value)
}

func (m LedgerModel) netStyle(t summary.Totals) lipgloss.Style {
	if t.Net.IsNegative() {
		return expenseStyle
	}

	return incomeStyle
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

// Messages

type removedMsg struct {
	tx  transaction.Transaction
	err error
}

func (m LedgerModel) removeCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	id := m.txs[idx].ID
	store := m.store

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		tx, err := store.Remove(ctx, id)

		return removedMsg{tx: tx, err: err}
	}
}
