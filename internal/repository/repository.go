// Package repository decides, per operation, whether records are read from
// and written to the local store, the remote service, or both.
//
// Writes always land locally first and are then pushed to the remote on a
// best-effort basis. Reads prefer the remote when it answers the probe.
package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/runnerr0/timerlog/internal/record"
	"github.com/runnerr0/timerlog/internal/stats"
	"github.com/runnerr0/timerlog/internal/storage"
)

// Remote is the authoritative record service.
type Remote interface {
	List(ctx context.Context) ([]record.Record, error)
	Create(ctx context.Context, d record.Draft) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (record.StatsSnapshot, error)
}

// Prober reports whether the remote service is reachable right now.
type Prober interface {
	Probe(ctx context.Context) bool
}

// Repository coordinates the local store and the remote service. It holds
// no records itself.
type Repository struct {
	local      storage.LocalStore
	remote     Remote
	probe      Prober
	logger     *slog.Logger
	now        func() time.Time
	windowDays int
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for swallowed remote failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides time.Now for ID assignment and offline stats.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithWindowDays sets the histogram length of locally computed stats.
func WithWindowDays(days int) Option {
	return func(r *Repository) { r.windowDays = days }
}

// New returns a repository over local, remote and probe.
func New(local storage.LocalStore, remote Remote, probe Prober, opts ...Option) *Repository {
	r := &Repository{
		local:      local,
		remote:     remote,
		probe:      probe,
		logger:     slog.Default(),
		now:        time.Now,
		windowDays: stats.DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new record locally and then offers it to the remote.
// The returned error is non-nil only when the local write failed.
func (r *Repository) Create(ctx context.Context, d record.Draft) (record.Record, error) {
	all, err := r.local.GetAll(ctx)
	if err != nil {
		return record.Record{}, err
	}

	rec := d.WithID(record.NewID(r.now(), all))
	next := make([]record.Record, 0, len(all)+1)
	next = append(next, all...)
	next = append(next, rec)
	if err := r.local.Put(ctx, next); err != nil {
		return record.Record{}, err
	}

	if r.probe.Probe(ctx) {
		if err := r.remote.Create(ctx, d); err != nil {
			r.logger.Warn("remote create failed; record kept locally", "op", "create", "id", rec.ID, "err", err)
		}
	} else {
		r.logger.Debug("remote unavailable; record kept locally", "op", "create", "id", rec.ID)
	}

	return rec, nil
}

// Delete removes id from the local set and then from the remote. Removing
// an id that does not exist is not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	all, err := r.local.GetAll(ctx)
	if err != nil {
		return err
	}

	kept := make([]record.Record, 0, len(all))
	for _, rec := range all {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if err := r.local.Put(ctx, kept); err != nil {
		return err
	}

	if r.probe.Probe(ctx) {
		if err := r.remote.Delete(ctx, id); err != nil {
			r.logger.Warn("remote delete failed; local delete kept", "op", "delete", "id", id, "err", err)
		}
	}

	return nil
}

// List returns the remote set when the remote is reachable, replacing the
// local copy with it. Otherwise the local set is returned unchanged.
// Records are returned in storage order.
func (r *Repository) List(ctx context.Context) ([]record.Record, error) {
	if r.probe.Probe(ctx) {
		remote, err := r.remote.List(ctx)
		if err == nil {
			if err := r.local.Put(ctx, remote); err != nil {
				return nil, err
			}
			return remote, nil
		}
		r.logger.Warn("remote list failed; serving local records", "op", "list", "err", err)
	}

	return r.local.GetAll(ctx)
}

// Stats returns the remote snapshot when the remote is reachable. A failure
// of that call is returned as is. When the remote is unreachable the
// snapshot is computed from the local set.
func (r *Repository) Stats(ctx context.Context) (record.StatsSnapshot, error) {
	if r.probe.Probe(ctx) {
		return r.remote.Stats(ctx)
	}

	all, err := r.local.GetAll(ctx)
	if err != nil {
		return record.StatsSnapshot{}, err
	}
	return stats.Aggregate(all, r.windowDays, r.now()), nil
}
