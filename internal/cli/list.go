package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/runnerr0/timerlog/internal/record"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	var since time.Duration
	if c.Since != "" {
		d, err := parseDuration(c.Since)
		if err != nil {
			return fmt.Errorf("--since: %w", err)
		}
		since = d
	}

	return withApp(c.globals, func(ctx context.Context, a *app) error {
		return c.run(ctx, a, since, time.Now())
	})
}

// run lists sessions through the repository (used by tests).
func (c *ListCommand) run(ctx context.Context, a *app, since time.Duration, now time.Time) error {
	all, err := a.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	recs := newestFirst(all)
	if since > 0 {
		cutoff := now.Add(-since)
		kept := recs[:0]
		for _, r := range recs {
			if !r.StartTime.Before(cutoff) {
				kept = append(kept, r)
			}
		}
		recs = kept
	}
	if c.Limit > 0 && len(recs) > c.Limit {
		recs = recs[:c.Limit]
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(recordsOrEmpty(recs))
	}

	if len(recs) == 0 {
		fmt.Println("No sessions.")
		return nil
	}

	fmt.Printf("%-15s  %-19s  %-19s  %s\n", "ID", "START", "END", "DURATION")
	for _, r := range recs {
		fmt.Printf("%-15s  %-19s  %-19s  %s\n", r.ID, formatLocal(r.StartTime), formatLocal(r.EndTime), formatSeconds(r.Duration))
	}
	fmt.Printf("\n%d session(s)\n", len(recs))
	return nil
}

// newestFirst returns a copy of recs ordered by start time, latest first.
func newestFirst(recs []record.Record) []record.Record {
	out := make([]record.Record, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}
