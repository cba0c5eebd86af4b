// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Accepted layouts for transaction and deadline dates.
const (
	DateLayout      = "2006-01-02"
	ItalianLayout   = "02/01/2006"
	timestampLayout = time.RFC3339
)

// Transaction (movimento) is a single historical bank movement of a company.
// Exactly one of Inflow and Outflow is expected to be positive.
type Transaction struct {
	ID          string  `json:"id"`
	Company     string  `json:"company"`     // Company code, e.g. LNC
	Date        string  `json:"date"`        // ISO date as stored by the import flows
	Description string  `json:"description"` // Raw bank description
	Category    string  `json:"category,omitempty"`
	Subcategory string  `json:"subcategory,omitempty"`
	DeadlineID  string  `json:"deadline_id,omitempty"` // Set when the movement settles a scadenza
	Hash        string  `json:"hash,omitempty"`
	Inflow      float64 `json:"inflow"`
	Outflow     float64 `json:"outflow"`
}

// ParseDate parses a date in ISO, RFC 3339 or Italian dd/mm/yyyy form and
// returns the calendar day at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range []string{DateLayout, timestampLayout, ItalianLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// ParsedDate returns the transaction date as a UTC calendar day.
func (t *Transaction) ParsedDate() (time.Time, error) {
	return ParseDate(t.Date)
}

// IsExpense reports whether the movement is an outgoing payment.
func (t *Transaction) IsExpense() bool {
	return t.Outflow > 0
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%.2f:%.2f:%s",
		t.Company,
		t.Date,
		t.Inflow,
		t.Outflow,
		strings.TrimSpace(t.Description))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
