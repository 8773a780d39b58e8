package sqlstore

import (
	"context"
	"fmt"
)

// SchemaVersion is the current schema version of the loans database.
const SchemaVersion = 1

var schemaV1 = []struct {
	name string
	stmt string
}{
	{"create loans table", `
		CREATE TABLE IF NOT EXISTS loans (
			id TEXT PRIMARY KEY,
			guild_id TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			creditor_id TEXT NOT NULL,
			creditor_name TEXT NOT NULL DEFAULT '',
			debtor_id TEXT NOT NULL,
			debtor_name TEXT NOT NULL DEFAULT '',
			original_amount DOUBLE PRECISION NOT NULL,
			current_amount DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			thread_ref TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			accepted_at TEXT NULL,
			last_accrual_at TEXT NULL,
			completion_requested_by TEXT NOT NULL DEFAULT '',
			completion_requested_at TEXT NULL,
			close_requested_by TEXT NOT NULL DEFAULT '',
			close_requested_at TEXT NULL,
			version INTEGER NOT NULL
		);`},
	{"create payments table", `
		CREATE TABLE IF NOT EXISTS payments (
			id TEXT PRIMARY KEY,
			loan_id TEXT NOT NULL REFERENCES loans(id),
			amount DOUBLE PRECISION NOT NULL,
			proposed_by TEXT NOT NULL,
			status TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			settled_by TEXT NOT NULL DEFAULT '',
			settled_at TEXT NULL
		);`},
	{"create idx_loans_status_created_at", `CREATE INDEX IF NOT EXISTS idx_loans_status_created_at ON loans(status, created_at);`},
	{"create idx_payments_loan_id_recorded_at", `CREATE INDEX IF NOT EXISTS idx_payments_loan_id_recorded_at ON payments(loan_id, recorded_at);`},
}

// Migrate ensures the schema exists and is at the current SchemaVersion.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}

	if current >= SchemaVersion {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, step := range schemaV1 {
		if _, err := tx.ExecContext(ctx, step.stmt); err != nil {
			return fmt.Errorf("migrate: %s: %w", step.name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO schema_migrations(version) VALUES (?);`), SchemaVersion); err != nil {
		return fmt.Errorf("migrate: record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit transaction: %w", err)
	}

	return nil
}
