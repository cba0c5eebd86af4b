package model

import "time"

// Recurrence is the cadence label of a scadenza.
type Recurrence string

// Recurrence labels. Only the periodic ones are ever inferred from history.
const (
	RecurrenceMonthly   Recurrence = "Mensile"
	RecurrenceQuarterly Recurrence = "Trimestrale"
	RecurrenceAnnual    Recurrence = "Annuale"
	RecurrenceOneOff    Recurrence = "Una tantum"
)

// Months returns the number of calendar months between two occurrences,
// or zero for non periodic labels.
func (r Recurrence) Months() int {
	switch r {
	case RecurrenceMonthly:
		return 1
	case RecurrenceQuarterly:
		return 3
	case RecurrenceAnnual:
		return 12
	default:
		return 0
	}
}

// IsValid reports whether r is a known label.
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceMonthly, RecurrenceQuarterly, RecurrenceAnnual, RecurrenceOneOff:
		return true
	default:
		return false
	}
}

// DeadlineStatus is the lifecycle state of a scadenza.
type DeadlineStatus string

// Deadline status constants.
const (
	StatusOpen      DeadlineStatus = "aperta"
	StatusPaid      DeadlineStatus = "pagata"
	StatusCancelled DeadlineStatus = "annullata"
)

// IsValid reports whether s is a known status.
func (s DeadlineStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusPaid, StatusCancelled:
		return true
	default:
		return false
	}
}

// DeadlineSource tells how a scadenza was created.
type DeadlineSource string

const (
	// SourceManual marks deadlines entered by hand.
	SourceManual DeadlineSource = "manuale"
	// SourceSuggested marks deadlines accepted from a suggestion.
	SourceSuggested DeadlineSource = "suggerita"
)

// Deadline (scadenza) is a scheduled financial obligation.
type Deadline struct {
	CreatedAt   time.Time      `json:"created_at"`
	ID          string         `json:"id"`
	Company     string         `json:"company"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory"`
	Recurrence  Recurrence     `json:"recurrence"`
	DueDate     string         `json:"due_date"`
	Status      DeadlineStatus `json:"status"`
	Source      DeadlineSource `json:"source"`
	Amount      float64        `json:"amount"`
}

// IsCancelled reports whether the deadline no longer applies.
func (d *Deadline) IsCancelled() bool {
	return d.Status == StatusCancelled
}
