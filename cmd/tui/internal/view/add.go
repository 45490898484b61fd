package view

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

// draftFields holds the form bindings. It is shared by pointer so the values
// survive the model being copied and the form being rebuilt.
type draftFields struct {
	Type        transaction.Type
	Amount      string
	Description string
	Date        string
}

func (f *draftFields) draft() transaction.Draft {
	return transaction.Draft{
		Type:        f.Type,
		Amount:      f.Amount,
		Description: f.Description,
		Date:        f.Date,
	}
}

// AddModel is the add-transaction form. A rejected draft keeps the entered
// values and shows the reason next to the form.
type AddModel struct {
	CommonModel
	store *ledger.Store

	fields *draftFields
	form   *huh.Form
	err    string

	// submitting is set while an add is in flight; input is dropped until
	// its result arrives.
	submitting bool
}

func NewAddModel(store *ledger.Store, today time.Time) AddModel {
	fields := &draftFields{
		Type: transaction.TypeExpense,
		Date: FormatDate(today),
	}

	return AddModel{
		store:  store,
		fields: fields,
		form:   buildAddForm(fields),
	}
}

func buildAddForm(f *draftFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&f.Type),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&f.Amount),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&f.Description),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m AddModel) Title() string     { return "Add Transaction" }
func (m AddModel) ShortHelp() string { return "Enter/Tab: navigate form | Esc: cancel" }

func (m AddModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addResultMsg:
		return m.handleResult(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && !m.submitting {
			return m, Back
		}
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.submitting = true

	return m, addCmd(m.store, m.fields.draft())
}

func (m AddModel) handleResult(msg addResultMsg) (tea.Model, tea.Cmd) {
	var verr *transaction.ValidationError

	m.submitting = false

	switch {
	case msg.err == nil:
		return m, saved(fmt.Sprintf("Added %q.", msg.tx.Description))

	case errors.Is(msg.err, ledger.ErrNotPersisted):
		return m, saved(fmt.Sprintf("Added %q, but it could not be saved: %v", msg.tx.Description, msg.err))

	case errors.As(msg.err, &verr):
		m.err = fmt.Sprintf("%s: %v", verr.Field, verr.Err)
	default:
		m.err = msg.err.Error()
	}

	m.form = buildAddForm(m.fields)

	return m, m.form.Init()
}

func (m AddModel) View() string {
	content := m.form.View()
	if m.err != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, errorStyle.Render(m.err))
	}

	return panelStyle.Padding(1, 2).Width(50).Render("New Transaction\n\n" + content)
}

// Messages

type addResultMsg struct {
	tx  transaction.Transaction
	err error
}

func addCmd(store *ledger.Store, d transaction.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		tx, err := store.Add(ctx, d)

		return addResultMsg{tx: tx, err: err}
	}
}

func saved(status string) tea.Cmd {
	return func() tea.Msg {
		return SavedMsg{Status: status}
	}
}
