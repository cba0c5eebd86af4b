package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/service"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const deadlineColumns = `id, company, description, category, subcategory, recurrence, due_date, amount, status, source, created_at`

// SaveDeadline inserts a new deadline.
func (s *SQLiteStorage) SaveDeadline(ctx context.Context, deadline *model.Deadline) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDeadline(deadline); err != nil {
		return err
	}
	return s.saveDeadlineTx(ctx, s.db, deadline)
}

func (s *SQLiteStorage) saveDeadlineTx(ctx context.Context, q queryable, deadline *model.Deadline) error {
	if deadline.CreatedAt.IsZero() {
		deadline.CreatedAt = time.Now().UTC()
	}
	if deadline.Source == "" {
		deadline.Source = model.SourceManual
	}

	due, _ := model.ParseDate(deadline.DueDate)

	_, err := q.ExecContext(ctx, `
		INSERT INTO scadenze (`+deadlineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		deadline.ID,
		strings.TrimSpace(deadline.Company),
		deadline.Description,
		deadline.Category,
		deadline.Subcategory,
		string(deadline.Recurrence),
		due.Format(model.DateLayout),
		deadline.Amount,
		string(deadline.Status),
		string(deadline.Source),
		deadline.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: deadline %s", common.ErrDuplicateEntry, deadline.ID)
		}
		return fmt.Errorf("failed to save deadline %s: %w", deadline.ID, err)
	}

	return nil
}

// GetDeadline returns the deadline with the given ID.
func (s *SQLiteStorage) GetDeadline(ctx context.Context, id string) (*model.Deadline, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+deadlineColumns+` FROM scadenze WHERE id = ?`, id)
	deadline, err := scanDeadline(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deadline %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return deadline, nil
}

// GetDeadlines returns deadlines matching filter ordered by due date.
func (s *SQLiteStorage) GetDeadlines(ctx context.Context, filter service.DeadlineFilter) ([]model.Deadline, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, filter.Status)
	}

	query := `SELECT ` + deadlineColumns + ` FROM scadenze WHERE 1=1`
	var args []any

	if filter.Company != "" {
		query += " AND company = ?"
		args = append(args, strings.TrimSpace(filter.Company))
	}
	switch {
	case filter.Status != "":
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	case !filter.IncludeCancelled:
		query += " AND status != ?"
		args = append(args, string(model.StatusCancelled))
	}

	query += " ORDER BY due_date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deadlines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var deadlines []model.Deadline
	for rows.Next() {
		deadline, err := scanDeadline(rows)
		if err != nil {
			return nil, err
		}
		deadlines = append(deadlines, *deadline)
	}

	return deadlines, rows.Err()
}

// UpdateDeadlineStatus changes the status of a deadline.
func (s *SQLiteStorage) UpdateDeadlineStatus(ctx context.Context, id string, status model.DeadlineStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE scadenze SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update deadline %s: %w", id, err)
	}
	return requireAffected(res, id)
}

// DeleteDeadline removes a deadline.
func (s *SQLiteStorage) DeleteDeadline(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM scadenze WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deadline %s: %w", id, err)
	}
	return requireAffected(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDeadline(row scanner) (*model.Deadline, error) {
	var (
		d          model.Deadline
		recurrence string
		status     string
		source     string
	)

	err := row.Scan(
		&d.ID,
		&d.Company,
		&d.Description,
		&d.Category,
		&d.Subcategory,
		&recurrence,
		&d.DueDate,
		&d.Amount,
		&status,
		&source,
		&d.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan deadline: %w", err)
	}

	d.Recurrence = model.Recurrence(recurrence)
	d.Status = model.DeadlineStatus(status)
	d.Source = model.DeadlineSource(source)
	return &d, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deadline %s: %w", id, common.ErrNotFound)
	}
	return nil
}
