package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/runnerr0/timerlog/internal/record"
)

// LocalStore is the durable on-device copy of the record set. Both
// operations work on the whole set; there is no partial merge.
type LocalStore interface {
	GetAll(ctx context.Context) ([]record.Record, error)
	Put(ctx context.Context, all []record.Record) error
}

// SQLiteStore implements LocalStore as a single JSON row in a SQLite
// key-value table.
type SQLiteStore struct {
	db  *sql.DB
	key string
	now func() time.Time

	getValue    *sql.Stmt
	putValue    *sql.Stmt
	deleteValue *sql.Stmt
}

// NewSQLiteStore creates a store from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, key: record.StorageKey, now: time.Now}

	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getValue, err = s.db.Prepare(`SELECT value FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}

	s.putValue, err = s.db.Prepare(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}

	s.deleteValue, err = s.db.Prepare(`DELETE FROM kv WHERE key = ?`)
	if err != nil {
		return err
	}

	return nil
}

// GetAll returns the stored record set, or an empty set if nothing has been
// written yet.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]record.Record, error) {
	var value string
	err := s.getValue.QueryRowContext(ctx, s.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []record.Record{}, nil
		}
		return nil, &record.StorageFailure{Op: "read", Err: err}
	}

	var all []record.Record
	if err := json.Unmarshal([]byte(value), &all); err != nil {
		return nil, &record.StorageFailure{Op: "decode", Err: err}
	}
	if all == nil {
		all = []record.Record{}
	}
	return all, nil
}

// Put replaces the stored record set with all.
func (s *SQLiteStore) Put(ctx context.Context, all []record.Record) error {
	if all == nil {
		all = []record.Record{}
	}
	data, err := json.Marshal(all)
	if err != nil {
		return &record.StorageFailure{Op: "encode", Err: err}
	}

	updatedAt := s.now().UTC().Format(time.RFC3339)
	if _, err := s.putValue.ExecContext(ctx, s.key, string(data), updatedAt); err != nil {
		return &record.StorageFailure{Op: "write", Err: err}
	}
	return nil
}

// Purge removes the stored record set entirely.
func (s *SQLiteStore) Purge(ctx context.Context) error {
	if _, err := s.deleteValue.ExecContext(ctx, s.key); err != nil {
		return &record.StorageFailure{Op: "purge", Err: err}
	}
	return nil
}

// UpdatedAt reports when the record set was last written. The zero time is
// returned if it never was.
func (s *SQLiteStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	var ts string
	err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM kv WHERE key = ?", s.key).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, &record.StorageFailure{Op: "read", Err: err}
	}
	return record.ParseTime(ts)
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.getValue, s.putValue, s.deleteValue}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}

// Open creates the directory for path if needed, opens the SQLite database
// with the given driver, runs migrations, and returns a ready-to-use store
// together with the underlying *sql.DB.
func Open(path, driver, journalMode string) (*SQLiteStore, *sql.DB, error) {
	if d, err := DialectFor(driver); err != nil {
		return nil, nil, err
	} else if d != SQLite {
		return nil, nil, fmt.Errorf("local store requires a SQLite driver, got %q", driver)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	// :memory: databases exist per connection.
	db.SetMaxOpenConns(1)

	runner := NewLocalMigrationRunner(db).WithJournalMode(journalMode)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}
