package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// SavedMsg is emitted by a form once its changes reached the ledger.
type SavedMsg struct {
	Status string
}
