package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
)

// ledgerChangedMsg is delivered whenever the Store reports a change.
type ledgerChangedMsg struct {
	event ledger.Event
}

// waitForEvent blocks until the next ledger event arrives.
func waitForEvent(events <-chan ledger.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return ledgerChangedMsg{event: e}
	}
}
