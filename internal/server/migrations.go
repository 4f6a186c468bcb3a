package server

import (
	"database/sql"

	"github.com/runnerr0/timerlog/internal/storage"
)

// Migrations is the schema of the record service database.
var Migrations = []storage.Migration{
	{Version: 1, Name: "records", Apply: migrateV001},
}

// migrateV001 creates the per-user records table.
func migrateV001(tx *sql.Tx, _ storage.Dialect) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time   TEXT NOT NULL,
			duration   BIGINT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_user_start ON records(user_id, start_time)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
