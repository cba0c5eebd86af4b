package cli

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/recurrence"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
}

// SuggestionsTable renders suggestions with their position, which the
// accept command takes as --index.
func SuggestionsTable(suggestions []model.DeadlineSuggestion) string {
	t := newTable("#", "Affidabilità", "Società", "Descrizione", "Cadenza", "Importo", "Prossima", "Categoria")
	for i, s := range suggestions {
		t.Row(
			strconv.Itoa(i+1),
			string(s.Confidence),
			s.Company,
			s.Description,
			string(s.Recurrence),
			recurrence.FormatEUR(s.Amount),
			s.NextDueDate,
			fmt.Sprintf("%s / %s", s.Category, s.Subcategory),
		)
	}
	return t.String()
}

// DeadlinesTable renders stored deadlines.
func DeadlinesTable(deadlines []model.Deadline) string {
	t := newTable("ID", "Società", "Descrizione", "Cadenza", "Scadenza", "Importo", "Stato", "Origine")
	for _, d := range deadlines {
		t.Row(
			d.ID,
			d.Company,
			d.Description,
			string(d.Recurrence),
			d.DueDate,
			recurrence.FormatEUR(d.Amount),
			string(d.Status),
			string(d.Source),
		)
	}
	return t.String()
}

