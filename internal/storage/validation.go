// Package storage provides the SQLite persistence layer for movements and deadlines.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/scadenziario/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidStatus      = errors.New("invalid deadline status")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidDeadline    = errors.New("invalid deadline")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if strings.TrimSpace(txn.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Company) == "" {
		return fmt.Errorf("%w: missing company", ErrInvalidTransaction)
	}
	if _, err := model.ParseDate(txn.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	if strings.TrimSpace(txn.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	if !validAmount(txn.Inflow) || !validAmount(txn.Outflow) {
		return fmt.Errorf("%w: amounts must be finite and non-negative", ErrInvalidTransaction)
	}
	return nil
}

// validateDeadline validates a deadline before it is written.
func validateDeadline(deadline *model.Deadline) error {
	if deadline == nil {
		return fmt.Errorf("%w: deadline", ErrNilParameter)
	}
	if strings.TrimSpace(deadline.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidDeadline)
	}
	if strings.TrimSpace(deadline.Company) == "" {
		return fmt.Errorf("%w: missing company", ErrInvalidDeadline)
	}
	if strings.TrimSpace(deadline.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidDeadline)
	}
	if !deadline.Recurrence.IsValid() {
		return fmt.Errorf("%w: unknown recurrence %q", ErrInvalidDeadline, deadline.Recurrence)
	}
	if _, err := model.ParseDate(deadline.DueDate); err != nil {
		return fmt.Errorf("%w: due date: %v", ErrInvalidDeadline, err)
	}
	if !deadline.Status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, deadline.Status)
	}
	if !validAmount(deadline.Amount) {
		return fmt.Errorf("%w: amount must be finite and non-negative", ErrInvalidDeadline)
	}
	return nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
