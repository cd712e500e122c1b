// Package tui implements the interactive monthly dashboard.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/tui/themes"
)

// View represents the current view mode.
type View int

// Views, in tab order.
const (
	ViewOverview View = iota
	ViewDaily
	ViewHistory
	viewCount
)

func (v View) String() string {
	switch v {
	case ViewOverview:
		return "Overview"
	case ViewDaily:
		return "Daily"
	case ViewHistory:
		return "History"
	default:
		return "Unknown"
	}
}

// eventBuffer bounds how many unseen ledger events are queued for the UI.
const eventBuffer = 16

// Model holds the dashboard state. Every number shown is re-read from the
// Store on render.
type Model struct {
	store       *ledger.Store
	formatter   *cli.Formatter
	events      chan ledger.Event
	unsubscribe func()
	theme       themes.Theme
	help        help.Model
	bar         progress.Model
	keymap      KeyMap
	view        View
	width       int
	height      int
	refreshes   int
	quitting    bool
}

// NewModel creates a dashboard over store. Call Close when done to stop
// listening for ledger changes.
func NewModel(store *ledger.Store, formatter *cli.Formatter, theme themes.Theme) Model {
	events := make(chan ledger.Event, eventBuffer)
	unsubscribe := store.Subscribe(func(e ledger.Event) {
		select {
		case events <- e:
		default:
			// The next render reads fresh state anyway.
		}
	})

	bar := progress.New(progress.WithGradient(theme.BarGradient[0], theme.BarGradient[1]))
	bar.ShowPercentage = false
	bar.Width = 20

	return Model{
		store:       store,
		formatter:   formatter,
		events:      events,
		unsubscribe: unsubscribe,
		theme:       theme,
		help:        help.New(),
		bar:         bar,
		keymap:      DefaultKeyMap(),
		view:        ViewOverview,
	}
}

// Close stops listening for ledger changes.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init starts listening for ledger changes.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width/4, 10), 40)

	case ledgerChangedMsg:
		m.refreshes++
		return m, waitForEvent(m.events)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.PrevMonth):
		m.store.ChangeMonth(-1)

	case key.Matches(msg, m.keymap.NextMonth):
		m.store.ChangeMonth(1)

	case key.Matches(msg, m.keymap.Today):
		m.store.SetMonth(model.MonthOf(m.store.Now()))

	case key.Matches(msg, m.keymap.NextView):
		m.view = (m.view + 1) % viewCount

	case key.Matches(msg, m.keymap.PrevView):
		m.view = (m.view + viewCount - 1) % viewCount

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}
