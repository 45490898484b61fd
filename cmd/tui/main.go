package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tracker/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tracker/internal/config"
	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/storage"
)

type model struct {
	store    *ledger.Store
	currency string

	ledgerView view.LedgerModel
	// active is the open form, nil while the ledger is shown.
	active view.View
}

func initialModel(store *ledger.Store, currency string) model {
	return model{
		store:      store,
		currency:   currency,
		ledgerView: view.NewLedgerModel(store, currency),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		newModel, cmd := m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)

		return m, cmd

	case view.BackMsg:
		m.active = nil
		return m, nil

	case view.SavedMsg:
		m.active = nil
		m.ledgerView.SetStatus(msg.Status)
		m.ledgerView.Refresh()

		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.active == nil {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "a":
				m.active = view.NewAddModel(m.store, time.Now())
				return m, m.active.Init()
			case "i":
				m.active = view.NewImportModel(m.store)
				return m, m.active.Init()
			}
		}
	}

	if m.active != nil {
		newModel, cmd := m.active.Update(msg)
		m.active = newModel.(view.View)

		return m, cmd
	}

	newModel, cmd := m.ledgerView.Update(msg)
	m.ledgerView = newModel.(view.LedgerModel)

	return m, cmd
}

func (m model) View() string {
	current := view.View(m.ledgerView)
	if m.active != nil {
		current = m.active
	}

	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("Tracker · " + current.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := tea.LogToFile("tracker-tui.log", "tui")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx := context.Background()

	backend, closeBackend, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeBackend()

	store := ledger.New(backend, cfg.Storage.Key)
	store.Load(ctx)

	p := tea.NewProgram(initialModel(store, cfg.App.Currency), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		return err
	}

	return nil
}
