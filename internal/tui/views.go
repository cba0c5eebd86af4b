package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/recurrence"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if len(m.suggestions) == 0 {
		return m.theme.StatusPending.Render("Nessuna scadenza suggerita.") + "\n"
	}
	if m.state == StateAborted {
		return ""
	}

	accepted, skipped, pending := m.counts()
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(fmt.Sprintf("Scadenze suggerite (%d)", len(m.suggestions))),
		m.theme.Subtitle.Render(fmt.Sprintf("%d accettate · %d saltate · %d da decidere", accepted, skipped, pending)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.renderList(),
		"",
		m.renderDetail(),
		"",
		m.help.View(m.keymap),
	)
}

func (m Model) renderList() string {
	// Keep the cursor visible when the list is taller than the terminal.
	visible := max(m.height-14, 3)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.suggestions))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		s := m.suggestions[i]
		line := fmt.Sprintf("%s %-5s %-10s %-32s %-11s %12s  %s",
			m.decisionMarker(m.decisions[i]),
			s.Confidence,
			truncate(s.Company, 10),
			truncate(s.Description, 32),
			s.Recurrence,
			recurrence.FormatEUR(s.Amount),
			s.NextDueDate)

		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		} else {
			line = m.confidenceStyle(s.Confidence).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetail() string {
	s := m.suggestions[m.cursor]

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", m.theme.Bold.Render(s.Description))
	fmt.Fprintf(&b, "Categoria: %s / %s\n", s.Category, s.Subcategory)
	fmt.Fprintf(&b, "Ultimo pagamento: %s · Prossima scadenza: %s\n", s.LastPaymentDate, s.NextDueDate)
	fmt.Fprintf(&b, "Movimenti: %d · Punteggio: %d\n", s.Occurrences, s.Score)
	b.WriteString(m.theme.StatusPending.Render(s.Reason))

	return m.theme.RoundedBox.Render(b.String())
}

func (m Model) decisionMarker(d Decision) string {
	switch d {
	case DecisionAccepted:
		return m.theme.StatusSuccess.Render("[✓]")
	case DecisionSkipped:
		return m.theme.StatusPending.Render("[-]")
	default:
		return "[ ]"
	}
}

func (m Model) confidenceStyle(c model.ConfidenceTier) lipgloss.Style {
	switch c {
	case model.ConfidenceHigh:
		return m.theme.ConfidenceHigh
	case model.ConfidenceMedium:
		return m.theme.ConfidenceMed
	default:
		return m.theme.ConfidenceLow
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
