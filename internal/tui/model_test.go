package tui

import (
	"testing"

	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSuggestions() []model.DeadlineSuggestion {
	return []model.DeadlineSuggestion{
		{
			Company:         "ACME",
			Description:     "Pagamento F24",
			Category:        "Tasse",
			Subcategory:     "F24 Vari",
			Recurrence:      model.RecurrenceMonthly,
			Confidence:      model.ConfidenceHigh,
			Reason:          "4 pagamenti mensili di importo stabile",
			LastPaymentDate: "2024-04-16",
			NextDueDate:     "2024-05-16",
			Amount:          453.25,
			Score:           5,
			Occurrences:     4,
		},
		{
			Company:     "ACME",
			Description: "Enel Energia",
			Recurrence:  model.RecurrenceQuarterly,
			Confidence:  model.ConfidenceMedium,
			NextDueDate: "2024-07-01",
			Amount:      310,
		},
		{
			Company:     "BETA",
			Description: "Assicurazione flotta",
			Recurrence:  model.RecurrenceAnnual,
			Confidence:  model.ConfidenceLow,
			NextDueDate: "2025-01-10",
			Amount:      2400,
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_AcceptAndSkip(t *testing.T) {
	m := NewModel(testSuggestions(), WithTheme(themes.Plain))

	m, cmd := press(t, m, runes("a"))
	assert.Equal(t, 1, m.cursor)
	assert.False(t, isQuit(cmd))

	m, _ = press(t, m, runes("s"))
	assert.Equal(t, 2, m.cursor)

	m, cmd = press(t, m, runes("y"))
	assert.True(t, isQuit(cmd), "deciding the last suggestion ends the review")
	assert.True(t, m.Confirmed())

	accepted := m.Accepted()
	require.Len(t, accepted, 2)
	assert.Equal(t, "Pagamento F24", accepted[0].Description)
	assert.Equal(t, "Assicurazione flotta", accepted[1].Description)
}

func TestModel_DecideWrapsToFirstPending(t *testing.T) {
	m := NewModel(testSuggestions(), WithTheme(themes.Plain))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, runes("a"))
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, StateReviewing, m.State())
}

func TestModel_AcceptAll(t *testing.T) {
	m := NewModel(testSuggestions(), WithTheme(themes.Plain))

	m, _ = press(t, m, runes("n"))
	m, cmd := press(t, m, runes("A"))
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Confirmed())
	assert.Len(t, m.Accepted(), 2)
}

func TestModel_ConfirmEarly(t *testing.T) {
	m := NewModel(testSuggestions(), WithTheme(themes.Plain))

	m, _ = press(t, m, runes("a"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Confirmed())
	assert.Len(t, m.Accepted(), 1)
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "q", msg: runes("q")},
		{name: "esc", msg: tea.KeyMsg{Type: tea.KeyEsc}},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(testSuggestions(), WithTheme(themes.Plain))
			m, _ = press(t, m, runes("a"))

			m, cmd := press(t, m, tt.msg)
			assert.True(t, isQuit(cmd))
			assert.False(t, m.Confirmed())
			assert.Equal(t, StateAborted, m.State())
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel(testSuggestions(), WithTheme(themes.Plain))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	m, _ = press(t, m, runes("j"), runes("j"), runes("j"))
	assert.Equal(t, 2, m.cursor)

	m, _ = press(t, m, runes("k"))
	assert.Equal(t, 1, m.cursor)
}

func TestModel_KeysIgnoredAfterConfirm(t *testing.T) {
	m := NewModel(testSuggestions(), WithTheme(themes.Plain))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := press(t, m, runes("a"))
	assert.Nil(t, cmd)
	assert.Empty(t, m.Accepted())
}

func TestModel_Empty(t *testing.T) {
	m := NewModel(nil, WithTheme(themes.Plain))
	assert.True(t, isQuit(m.Init()))
	assert.Contains(t, m.View(), "Nessuna scadenza suggerita")
}

func TestModel_View(t *testing.T) {
	m := NewModel(testSuggestions(), WithTheme(themes.Plain), WithSize(120, 40))

	view := m.View()
	assert.Contains(t, view, "Scadenze suggerite (3)")
	assert.Contains(t, view, "0 accettate · 0 saltate · 3 da decidere")
	assert.Contains(t, view, "Pagamento F24")
	assert.Contains(t, view, "Tasse / F24 Vari")
	assert.Contains(t, view, "453,25 €")
	assert.Contains(t, view, "2024-05-16")

	m, _ = press(t, m, runes("a"))
	assert.Contains(t, m.View(), "[✓]")
	assert.Contains(t, m.View(), "1 accettate")
}

func TestModel_WindowResize(t *testing.T) {
	m := NewModel(testSuggestions(), WithTheme(themes.Plain))
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)

	m, _ = press(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "breve", truncate("breve", 10))
	assert.Equal(t, "Assicura…", truncate("Assicurazione", 9))
}
