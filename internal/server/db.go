package server

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runnerr0/timerlog/internal/storage"
)

// OpenDB opens the service database named by dsn and migrates it. DSNs
// starting with postgres:// or postgresql:// select PostgreSQL; anything
// else is treated as a SQLite file path.
func OpenDB(dsn string) (*sql.DB, storage.Dialect, error) {
	driver := storage.DriverSQLite3
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = storage.DriverPostgres
	}
	dialect, err := storage.DialectFor(driver)
	if err != nil {
		return nil, 0, err
	}

	if dialect == storage.SQLite {
		if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, 0, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, 0, fmt.Errorf("open database: %w", err)
	}
	if dialect == storage.SQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("connect to database: %w", err)
	}

	if err := storage.NewMigrationRunner(db, dialect, Migrations).Run(); err != nil {
		db.Close()
		return nil, 0, fmt.Errorf("run migrations: %w", err)
	}

	return db, dialect, nil
}
