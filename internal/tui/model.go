package tui

import (
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Decision is the user's choice for one suggestion.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionAccepted
	DecisionSkipped
)

// State represents the current state of the review.
type State int

const (
	StateReviewing State = iota
	StateConfirmed
	StateAborted
)

// Model holds the review TUI state.
type Model struct {
	theme       themes.Theme
	keymap      KeyMap
	help        help.Model
	suggestions []model.DeadlineSuggestion
	decisions   []Decision
	cursor      int
	width       int
	height      int
	state       State
}

// NewModel creates a review model over suggestions, in the order given.
func NewModel(suggestions []model.DeadlineSuggestion, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h := help.New()
	h.ShowAll = cfg.ShowHelp
	h.Width = cfg.Width

	return Model{
		theme:       cfg.Theme,
		keymap:      DefaultKeyMap(),
		help:        h,
		suggestions: suggestions,
		decisions:   make([]Decision, len(suggestions)),
		width:       cfg.Width,
		height:      cfg.Height,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if len(m.suggestions) == 0 {
		return tea.Quit
	}
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state != StateReviewing {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.state = StateAborted
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.suggestions)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.Accept):
		return m.decide(DecisionAccepted)

	case key.Matches(msg, m.keymap.Skip):
		return m.decide(DecisionSkipped)

	case key.Matches(msg, m.keymap.AcceptAll):
		decisions := make([]Decision, len(m.decisions))
		for i, d := range m.decisions {
			if d == DecisionPending {
				d = DecisionAccepted
			}
			decisions[i] = d
		}
		m.decisions = decisions
		m.state = StateConfirmed
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Confirm):
		m.state = StateConfirmed
		return m, tea.Quit
	}
	return m, nil
}

// decide records d for the current suggestion and moves to the next
// undecided one. Deciding the last one confirms the review.
func (m Model) decide(d Decision) (tea.Model, tea.Cmd) {
	if len(m.suggestions) == 0 {
		m.state = StateConfirmed
		return m, tea.Quit
	}

	decisions := make([]Decision, len(m.decisions))
	copy(decisions, m.decisions)
	decisions[m.cursor] = d
	m.decisions = decisions

	for step := 1; step <= len(decisions); step++ {
		i := (m.cursor + step) % len(decisions)
		if decisions[i] == DecisionPending {
			m.cursor = i
			return m, nil
		}
	}

	m.state = StateConfirmed
	return m, tea.Quit
}

// State returns the review state.
func (m Model) State() State {
	return m.state
}

// Confirmed reports whether the user asked to save the accepted suggestions.
func (m Model) Confirmed() bool {
	return m.state == StateConfirmed
}

// Accepted returns the accepted suggestions in review order.
func (m Model) Accepted() []model.DeadlineSuggestion {
	var out []model.DeadlineSuggestion
	for i, d := range m.decisions {
		if d == DecisionAccepted {
			out = append(out, m.suggestions[i])
		}
	}
	return out
}

func (m Model) counts() (accepted, skipped, pending int) {
	for _, d := range m.decisions {
		switch d {
		case DecisionAccepted:
			accepted++
		case DecisionSkipped:
			skipped++
		default:
			pending++
		}
	}
	return accepted, skipped, pending
}
