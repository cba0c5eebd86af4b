package model

import "time"

// ConfidenceTier grades a deadline suggestion.
type ConfidenceTier string

// Confidence tiers, highest first.
const (
	ConfidenceHigh   ConfidenceTier = "Alta"
	ConfidenceMedium ConfidenceTier = "Media"
	ConfidenceLow    ConfidenceTier = "Bassa"
)

// Rank orders tiers so that Alta > Media > Bassa.
func (c ConfidenceTier) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// SourceRef points back to a transaction that produced a suggestion.
type SourceRef struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// DeadlineSuggestion is a recurring payment inferred from history that is not
// yet tracked as a scadenza. It has no lifecycle of its own.
type DeadlineSuggestion struct {
	Company         string         `json:"company"`
	Description     string         `json:"description"`
	NormalizedKey   string         `json:"normalized_key"`
	Category        string         `json:"category"`
	Subcategory     string         `json:"subcategory"`
	Recurrence      Recurrence     `json:"recurrence"`
	Confidence      ConfidenceTier `json:"confidence"`
	Reason          string         `json:"reason"`
	LastPaymentDate string         `json:"last_payment_date"`
	NextDueDate     string         `json:"next_due_date"`
	Sources         []SourceRef    `json:"sources"`
	Amount          float64        `json:"amount"`
	Score           int            `json:"score"`
	Occurrences     int            `json:"occurrences"`
	AmountStable    bool           `json:"amount_stable"`
}

// ToDeadline converts an accepted suggestion into an open scadenza.
func (s *DeadlineSuggestion) ToDeadline(id string, now time.Time) Deadline {
	return Deadline{
		ID:          id,
		Company:     s.Company,
		Description: s.Description,
		Category:    s.Category,
		Subcategory: s.Subcategory,
		Recurrence:  s.Recurrence,
		DueDate:     s.NextDueDate,
		Status:      StatusOpen,
		Source:      SourceSuggested,
		Amount:      s.Amount,
		CreatedAt:   now,
	}
}
