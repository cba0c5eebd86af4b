// Package testutil provides shared fixtures for tests that need a real
// database or a realistic payment history.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/service"
	"github.com/Veraticus/scadenziario/internal/storage"
)

// TestDB is a migrated SQLite database living in the test's temp dir.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated database and registers its cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedTransactions stores txns or fails the test.
func (db *TestDB) SeedTransactions(txns ...model.Transaction) *TestDB {
	db.t.Helper()
	if _, err := db.Storage.SaveTransactions(context.Background(), txns); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
	return db
}

// SeedDeadlines stores deadlines or fails the test.
func (db *TestDB) SeedDeadlines(deadlines ...model.Deadline) *TestDB {
	db.t.Helper()
	for i := range deadlines {
		if err := db.Storage.SaveDeadline(context.Background(), &deadlines[i]); err != nil {
			db.t.Fatalf("failed to seed deadline %q: %v", deadlines[i].ID, err)
		}
	}
	return db
}

// WithTransaction runs fn inside a database transaction that is always
// rolled back.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	tx, err := db.Storage.BeginTx(context.Background())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
