// Package service defines the persistence contract and the analysis services
// built on top of it.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/scadenziario/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Company   string
	Limit     int
}

// DeadlineFilter defines filtering options for deadline queries. Cancelled
// deadlines are excluded unless IncludeCancelled is set or Status asks for them.
type DeadlineFilter struct {
	Company          string
	Status           model.DeadlineStatus
	IncludeCancelled bool
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionCount(ctx context.Context) (int, error)
	GetCompanies(ctx context.Context) ([]string, error)

	// Deadline operations
	SaveDeadline(ctx context.Context, deadline *model.Deadline) error
	GetDeadline(ctx context.Context, id string) (*model.Deadline, error)
	GetDeadlines(ctx context.Context, filter DeadlineFilter) ([]model.Deadline, error)
	UpdateDeadlineStatus(ctx context.Context, id string, status model.DeadlineStatus) error
	DeleteDeadline(ctx context.Context, id string) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction groups writes that must succeed or fail together.
type Transaction interface {
	Commit() error
	Rollback() error
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	SaveDeadline(ctx context.Context, deadline *model.Deadline) error
}
