package storage

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Veraticus/scadenziario/internal/model"
)

func TestValidateContext(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{name: "valid context", ctx: context.Background()},
		{name: "nil context", ctx: nil, wantErr: true},
		{name: "canceled context still valid", ctx: canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	valid := model.Transaction{ID: "1", Company: "LNC", Date: "2024-01-16", Description: "F24", Outflow: 10}

	tests := []struct {
		mutate func(*model.Transaction)
		name   string
		want   error
	}{
		{name: "valid", mutate: func(*model.Transaction) {}},
		{name: "missing id", mutate: func(tx *model.Transaction) { tx.ID = "" }, want: ErrInvalidTransaction},
		{name: "missing company", mutate: func(tx *model.Transaction) { tx.Company = " " }, want: ErrInvalidTransaction},
		{name: "bad date", mutate: func(tx *model.Transaction) { tx.Date = "2024-13-01" }, want: ErrInvalidTransaction},
		{name: "italian date", mutate: func(tx *model.Transaction) { tx.Date = "16/01/2024" }},
		{name: "missing description", mutate: func(tx *model.Transaction) { tx.Description = "" }, want: ErrInvalidTransaction},
		{name: "negative outflow", mutate: func(tx *model.Transaction) { tx.Outflow = -1 }, want: ErrInvalidTransaction},
		{name: "nan inflow", mutate: func(tx *model.Transaction) { tx.Inflow = math.NaN() }, want: ErrInvalidTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := validateTransaction(&tx)
			if tt.want == nil && err != nil {
				t.Errorf("validateTransaction() unexpected error = %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("validateTransaction() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateTransactions(t *testing.T) {
	if err := validateTransactions(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateTransactions(nil) error = %v, want %v", err, ErrNilParameter)
	}
	if err := validateTransactions([]model.Transaction{}); !errors.Is(err, ErrEmptySlice) {
		t.Errorf("validateTransactions(empty) error = %v, want %v", err, ErrEmptySlice)
	}
}

func TestValidateDeadline(t *testing.T) {
	tests := []struct {
		mutate func(*model.Deadline)
		name   string
		want   error
	}{
		{name: "valid", mutate: func(*model.Deadline) {}},
		{name: "one-off recurrence", mutate: func(d *model.Deadline) { d.Recurrence = model.RecurrenceOneOff }},
		{name: "missing id", mutate: func(d *model.Deadline) { d.ID = "" }, want: ErrInvalidDeadline},
		{name: "missing company", mutate: func(d *model.Deadline) { d.Company = "" }, want: ErrInvalidDeadline},
		{name: "missing description", mutate: func(d *model.Deadline) { d.Description = "" }, want: ErrInvalidDeadline},
		{name: "unknown recurrence", mutate: func(d *model.Deadline) { d.Recurrence = "Bimestrale" }, want: ErrInvalidDeadline},
		{name: "bad due date", mutate: func(d *model.Deadline) { d.DueDate = "" }, want: ErrInvalidDeadline},
		{name: "bad status", mutate: func(d *model.Deadline) { d.Status = "chiusa" }, want: ErrInvalidStatus},
		{name: "negative amount", mutate: func(d *model.Deadline) { d.Amount = -5 }, want: ErrInvalidDeadline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := createTestDeadline("d1", "LNC")
			tt.mutate(d)
			err := validateDeadline(d)
			if tt.want == nil && err != nil {
				t.Errorf("validateDeadline() unexpected error = %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("validateDeadline() error = %v, want %v", err, tt.want)
			}
		})
	}

	if err := validateDeadline(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateDeadline(nil) error = %v, want %v", err, ErrNilParameter)
	}
}
