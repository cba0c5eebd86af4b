package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

func TestMigrate_SetsExpectedVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("SchemaVersion() = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if err := store.Migrate(context.Background()); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
}

func TestMigrate_VersionsAreSequential(t *testing.T) {
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("migrations[%d].Version = %d, want %d", i, m.Version, i+1)
		}
		if m.Description == "" {
			t.Errorf("migrations[%d] has no description", i)
		}
	}
	if last := migrations[len(migrations)-1].Version; last != ExpectedSchemaVersion {
		t.Errorf("last migration version = %d, want %d", last, ExpectedSchemaVersion)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	for _, name := range []string{"idx_movimenti_company_date", "idx_scadenze_company", "idx_scadenze_status_due", "idx_movimenti_deadline"} {
		var count int
		err := store.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?`, name).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check index %s: %v", name, err)
		}
		if count != 1 {
			t.Errorf("index %s was not created", name)
		}
	}
}

func TestMigrate_RekeysExistingMovements(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "old.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	// Build a version 3 database by hand.
	for _, m := range migrations[:3] {
		tx, err := store.db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("BeginTx() error = %v", err)
		}
		if err := m.Up(tx); err != nil {
			t.Fatalf("migration %d error = %v", m.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			t.Fatalf("set user_version error = %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
	}
	if _, err := store.db.Exec(`INSERT INTO movimenti (id, hash, company, date, description, outflow)
		VALUES ('FIT-1', 'h1', 'LNC', '2024-01-16', 'PAGAMENTO F24', 450)`); err != nil {
		t.Fatalf("seed error = %v", err)
	}

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	count, err := store.GetTransactionCount(ctx)
	if err != nil {
		t.Fatalf("GetTransactionCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("GetTransactionCount() = %d, want 1", count)
	}

	if _, err := store.db.Exec(`INSERT INTO movimenti (id, hash, company, date, description, outflow)
		VALUES ('FIT-1', 'h2', 'GSE', '2024-01-16', 'PAGAMENTO F24', 450)`); err != nil {
		t.Errorf("same reference for another company rejected: %v", err)
	}
}
