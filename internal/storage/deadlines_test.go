package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/service"
)

func TestSQLiteStorage_SaveAndGetDeadline(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	d := createTestDeadline("d1", "LNC")
	d.DueDate = "16/05/2024"
	if err := store.SaveDeadline(ctx, d); err != nil {
		t.Fatalf("SaveDeadline() error = %v", err)
	}

	got, err := store.GetDeadline(ctx, "d1")
	if err != nil {
		t.Fatalf("GetDeadline() error = %v", err)
	}

	if got.DueDate != "2024-05-16" {
		t.Errorf("DueDate = %q, want 2024-05-16", got.DueDate)
	}
	if got.Source != model.SourceManual {
		t.Errorf("Source = %q, want %q", got.Source, model.SourceManual)
	}
	if got.Recurrence != model.RecurrenceMonthly {
		t.Errorf("Recurrence = %q, want %q", got.Recurrence, model.RecurrenceMonthly)
	}
	if got.Amount != 453.25 {
		t.Errorf("Amount = %v, want 453.25", got.Amount)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestSQLiteStorage_SaveDeadline_Duplicate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveDeadline(ctx, createTestDeadline("d1", "LNC")); err != nil {
		t.Fatalf("SaveDeadline() error = %v", err)
	}
	err := store.SaveDeadline(ctx, createTestDeadline("d1", "LNC"))
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("SaveDeadline() error = %v, want %v", err, common.ErrDuplicateEntry)
	}
}

func TestSQLiteStorage_GetDeadlines(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	seed := []struct {
		id      string
		company string
		due     string
		status  model.DeadlineStatus
	}{
		{"a", "LNC", "2024-06-01", model.StatusOpen},
		{"b", "LNC", "2024-05-01", model.StatusPaid},
		{"c", "LNC", "2024-04-01", model.StatusCancelled},
		{"d", "GSE", "2024-03-01", model.StatusOpen},
	}
	for _, s := range seed {
		d := createTestDeadline(s.id, s.company)
		d.DueDate = s.due
		d.Status = s.status
		if err := store.SaveDeadline(ctx, d); err != nil {
			t.Fatalf("SaveDeadline(%s) error = %v", s.id, err)
		}
	}

	tests := []struct {
		filter service.DeadlineFilter
		name   string
		want   []string
	}{
		{name: "default hides cancelled", filter: service.DeadlineFilter{}, want: []string{"d", "b", "a"}},
		{name: "company", filter: service.DeadlineFilter{Company: "LNC"}, want: []string{"b", "a"}},
		{name: "include cancelled", filter: service.DeadlineFilter{Company: "LNC", IncludeCancelled: true}, want: []string{"c", "b", "a"}},
		{name: "status cancelled", filter: service.DeadlineFilter{Status: model.StatusCancelled}, want: []string{"c"}},
		{name: "status open", filter: service.DeadlineFilter{Status: model.StatusOpen}, want: []string{"d", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.GetDeadlines(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetDeadlines() error = %v", err)
			}
			ids := make([]string, len(got))
			for i, d := range got {
				ids[i] = d.ID
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("GetDeadlines() = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("GetDeadlines() = %v, want %v", ids, tt.want)
					break
				}
			}
		})
	}

	if _, err := store.GetDeadlines(ctx, service.DeadlineFilter{Status: "chiusa"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("GetDeadlines(bad status) error = %v, want %v", err, ErrInvalidStatus)
	}
}

func TestSQLiteStorage_UpdateDeadlineStatus(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveDeadline(ctx, createTestDeadline("d1", "LNC")); err != nil {
		t.Fatalf("SaveDeadline() error = %v", err)
	}

	if err := store.UpdateDeadlineStatus(ctx, "d1", model.StatusPaid); err != nil {
		t.Fatalf("UpdateDeadlineStatus() error = %v", err)
	}
	got, err := store.GetDeadline(ctx, "d1")
	if err != nil {
		t.Fatalf("GetDeadline() error = %v", err)
	}
	if got.Status != model.StatusPaid {
		t.Errorf("Status = %q, want %q", got.Status, model.StatusPaid)
	}

	if err := store.UpdateDeadlineStatus(ctx, "missing", model.StatusPaid); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("UpdateDeadlineStatus(missing) error = %v, want %v", err, common.ErrNotFound)
	}
	if err := store.UpdateDeadlineStatus(ctx, "d1", "chiusa"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("UpdateDeadlineStatus(bad) error = %v, want %v", err, ErrInvalidStatus)
	}
}

func TestSQLiteStorage_DeleteDeadline(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveDeadline(ctx, createTestDeadline("d1", "LNC")); err != nil {
		t.Fatalf("SaveDeadline() error = %v", err)
	}
	if err := store.DeleteDeadline(ctx, "d1"); err != nil {
		t.Fatalf("DeleteDeadline() error = %v", err)
	}
	if err := store.DeleteDeadline(ctx, "d1"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("second DeleteDeadline() error = %v, want %v", err, common.ErrNotFound)
	}
}
