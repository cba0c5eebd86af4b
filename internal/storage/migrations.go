package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Create movimenti table",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS movimenti (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					company TEXT NOT NULL,
					date TEXT NOT NULL,
					description TEXT NOT NULL,
					inflow REAL NOT NULL DEFAULT 0,
					outflow REAL NOT NULL DEFAULT 0,
					category TEXT NOT NULL DEFAULT '',
					subcategory TEXT NOT NULL DEFAULT '',
					deadline_id TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_movimenti_company_date ON movimenti(company, date)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Create scadenze table",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS scadenze (
					id TEXT PRIMARY KEY,
					company TEXT NOT NULL,
					description TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT '',
					subcategory TEXT NOT NULL DEFAULT '',
					recurrence TEXT NOT NULL,
					due_date TEXT NOT NULL,
					amount REAL NOT NULL DEFAULT 0,
					status TEXT NOT NULL DEFAULT 'aperta',
					source TEXT NOT NULL DEFAULT 'manuale',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_scadenze_company ON scadenze(company)`,
			})
		},
	},
	{
		Version:     3,
		Description: "Index scadenze by status and due date",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE INDEX IF NOT EXISTS idx_scadenze_status_due ON scadenze(status, due_date)`,
				`CREATE INDEX IF NOT EXISTS idx_movimenti_deadline ON movimenti(deadline_id) WHERE deadline_id != ''`,
			})
		},
	},
	{
		Version:     4,
		Description: "Key movimenti by company and bank reference",
		Up: func(tx *sql.Tx) error {
			// Bank references (FITID, export row ids) are unique per account only.
			return execAll(tx, []string{
				`CREATE TABLE movimenti_new (
					id TEXT NOT NULL,
					hash TEXT UNIQUE NOT NULL,
					company TEXT NOT NULL,
					date TEXT NOT NULL,
					description TEXT NOT NULL,
					inflow REAL NOT NULL DEFAULT 0,
					outflow REAL NOT NULL DEFAULT 0,
					category TEXT NOT NULL DEFAULT '',
					subcategory TEXT NOT NULL DEFAULT '',
					deadline_id TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (company, id)
				)`,
				`INSERT INTO movimenti_new (` + transactionColumns + `, created_at)
					SELECT ` + transactionColumns + `, created_at FROM movimenti`,
				`DROP TABLE movimenti`,
				`ALTER TABLE movimenti_new RENAME TO movimenti`,
				`CREATE INDEX idx_movimenti_company_date ON movimenti(company, date)`,
				`CREATE INDEX idx_movimenti_deadline ON movimenti(deadline_id) WHERE deadline_id != ''`,
			})
		},
	},
}

// SchemaVersion returns the version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
