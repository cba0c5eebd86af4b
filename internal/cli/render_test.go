package cli

import (
	"testing"

	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSuggestionsTable(t *testing.T) {
	out := SuggestionsTable([]model.DeadlineSuggestion{
		{
			Company:     "ACME",
			Description: "Pagamento F24",
			Category:    "Tasse",
			Subcategory: "F24 Vari",
			Recurrence:  model.RecurrenceMonthly,
			Confidence:  model.ConfidenceHigh,
			NextDueDate: "2024-05-16",
			Amount:      453.25,
		},
	})

	for _, want := range []string{"Affidabilità", "1", "Alta", "ACME", "Pagamento F24", "Mensile", "453,25 €", "2024-05-16", "Tasse / F24 Vari"} {
		assert.Contains(t, out, want)
	}
}

func TestDeadlinesTable(t *testing.T) {
	out := DeadlinesTable([]model.Deadline{
		{
			ID:          "3f2b9c1e-aaaa-bbbb-cccc-123456789abc",
			Company:     "ACME",
			Description: "Canone locazione",
			Recurrence:  model.RecurrenceMonthly,
			DueDate:     "2024-06-01",
			Amount:      1200,
			Status:      model.StatusOpen,
			Source:      model.SourceManual,
		},
	})

	assert.Contains(t, out, "3f2b9c1e-aaaa-bbbb-cccc-123456789abc")
	assert.Contains(t, out, "Canone locazione")
	assert.Contains(t, out, "aperta")
	assert.Contains(t, out, "manuale")
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("fatto"), "fatto")
	assert.Contains(t, FormatError("errore"), ErrorIcon)
	assert.Contains(t, FormatTitle("Scadenze"), "Scadenze")
}
