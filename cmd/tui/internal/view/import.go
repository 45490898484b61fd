package view

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tracker/internal/importer"
	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

// ImportModel asks for a CSV path and adds every row to the ledger, or none
// if any row is invalid.
type ImportModel struct {
	CommonModel
	store *ledger.Store

	path *string
	form *huh.Form
	err  string

	submitting bool
}

func NewImportModel(store *ledger.Store) ImportModel {
	path := new(string)

	return ImportModel{
		store: store,
		path:  path,
		form:  buildPathForm(path),
	}
}

func buildPathForm(path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("CSV file").
				Placeholder("/path/to/export.csv").
				Value(path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path cannot be empty")
					}

					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m ImportModel) Title() string     { return "Import CSV" }
func (m ImportModel) ShortHelp() string { return "Enter: import | Esc: cancel" }

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importResultMsg:
		m.submitting = false

		if msg.err == nil || errors.Is(msg.err, ledger.ErrNotPersisted) {
			return m, saved(msg.status())
		}

		m.err = msg.err.Error()
		m.form = buildPathForm(m.path)

		return m, m.form.Init()

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

	return m, importCmd(m.store, strings.TrimSpace(*m.path))
}

func (m ImportModel) View() string {
	content := m.form.View()
	if m.err != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, errorStyle.Render(m.err))
	}

	return panelStyle.Padding(1, 2).Width(66).Render("Import Transactions\n\n" + content)
}

// Messages

type importResultMsg struct {
	result *importer.Result
	added  int
	err    error
}

func (msg importResultMsg) status() string {
	s := fmt.Sprintf("Imported %d transactions (%s layout, %d rows skipped).",
		msg.added, msg.result.Profile, msg.result.Skipped)
	if msg.err != nil {
		s += fmt.Sprintf(" They could not be saved: %v", msg.err)
	}

	return s
}

func importCmd(store *ledger.Store, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		res, err := importer.Parse(f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		txs, err := store.AddBatch(ctx, res.Drafts)

		var batchErr *transaction.BatchError
		if errors.As(err, &batchErr) {
			return importResultMsg{result: res, err: fmt.Errorf("nothing imported, %s", res.Explain(batchErr))}
		}

		return importResultMsg{result: res, added: len(txs), err: err}
	}
}
