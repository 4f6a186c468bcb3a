package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migration is a single schema migration.
type Migration struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx, d Dialect) error
}

// MigrationRunner applies pending migrations to a database.
type MigrationRunner struct {
	db          *sql.DB
	dialect     Dialect
	journalMode string
	migrations  []Migration
}

// NewMigrationRunner creates a runner for the given migrations.
func NewMigrationRunner(db *sql.DB, dialect Dialect, migrations []Migration) *MigrationRunner {
	return &MigrationRunner{
		db:          db,
		dialect:     dialect,
		journalMode: "wal",
		migrations:  migrations,
	}
}

// NewLocalMigrationRunner creates a runner with the local record store schema.
func NewLocalMigrationRunner(db *sql.DB) *MigrationRunner {
	return NewMigrationRunner(db, SQLite, []Migration{
		{Version: 1, Name: "kv_store", Apply: migrateV001},
	})
}

// WithJournalMode overrides the SQLite journal mode set before migrating.
// It has no effect on PostgreSQL.
func (r *MigrationRunner) WithJournalMode(mode string) *MigrationRunner {
	if mode != "" {
		r.journalMode = mode
	}
	return r
}

// Run applies all pending migrations in order. On SQLite it first sets the
// journal mode. It creates the schema_migrations tracking table, then applies
// each migration that hasn't been recorded yet.
func (r *MigrationRunner) Run() error {
	if r.dialect == SQLite {
		if _, err := r.db.Exec("PRAGMA journal_mode = " + strings.ToUpper(r.journalMode)); err != nil {
			return fmt.Errorf("set journal mode: %w", err)
		}
	}

	if _, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range r.migrations {
		applied, err := r.isApplied(m.Version)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if applied {
			continue
		}

		if err := r.apply(m); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// isApplied checks whether a migration version has already been recorded.
func (r *MigrationRunner) isApplied(version int) (bool, error) {
	var count int
	err := r.db.QueryRow(
		r.dialect.Rebind("SELECT COUNT(*) FROM schema_migrations WHERE version = ?"), version,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// apply executes a migration inside a transaction and records it.
func (r *MigrationRunner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.Apply(tx, r.dialect); err != nil {
		return err
	}

	if _, err := tx.Exec(
		r.dialect.Rebind("INSERT INTO schema_migrations (version, name) VALUES (?, ?)"),
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}
