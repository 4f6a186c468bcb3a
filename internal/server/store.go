package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/runnerr0/timerlog/internal/record"
	"github.com/runnerr0/timerlog/internal/storage"
)

// timeLayout is fixed-width UTC so that text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists records per user.
type Store struct {
	db      *sql.DB
	dialect storage.Dialect
	now     func() time.Time
	newID   func() string
}

// NewStore wraps an opened and migrated database.
func NewStore(db *sql.DB, dialect storage.Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// List returns the user's records, newest start time first.
func (s *Store) List(ctx context.Context, userID string) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(`
		SELECT id, start_time, end_time, duration
		FROM records
		WHERE user_id = ?
		ORDER BY start_time DESC, created_at DESC
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []record.Record{}
	for rows.Next() {
		var (
			rec        record.Record
			start, end string
		)
		if err := rows.Scan(&rec.ID, &start, &end, &rec.Duration); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if rec.StartTime, err = record.ParseTime(start); err != nil {
			return nil, fmt.Errorf("record %s: start_time: %w", rec.ID, err)
		}
		if rec.EndTime, err = record.ParseTime(end); err != nil {
			return nil, fmt.Errorf("record %s: end_time: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Insert stores d for the user under a fresh ID and returns the result.
func (s *Store) Insert(ctx context.Context, userID string, d record.Draft) (record.Record, error) {
	rec := d.WithID(s.newID())
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO records (id, user_id, start_time, end_time, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`),
		rec.ID, userID,
		rec.StartTime.UTC().Format(timeLayout),
		rec.EndTime.UTC().Format(timeLayout),
		rec.Duration,
		s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return record.Record{}, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

// Delete removes one of the user's records. It returns record.ErrNotFound
// when the user has no record with that ID.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(
		`DELETE FROM records WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return record.ErrNotFound
	}
	return nil
}
