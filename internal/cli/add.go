package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/timerlog/internal/record"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if c.Start == "" {
		return fmt.Errorf("--start is required for add command")
	}
	if c.End == "" {
		return fmt.Errorf("--end is required for add command")
	}

	d, err := c.draft()
	if err != nil {
		return err
	}

	return withApp(c.globals, func(ctx context.Context, a *app) error {
		return c.run(ctx, a, d)
	})
}

// draft validates the flags and builds the session to store.
func (c *AddCommand) draft() (record.Draft, error) {
	start, err := parseTimeFlag(c.Start)
	if err != nil {
		return record.Draft{}, fmt.Errorf("--start: %w", err)
	}
	end, err := parseTimeFlag(c.End)
	if err != nil {
		return record.Draft{}, fmt.Errorf("--end: %w", err)
	}
	if end.Before(start) {
		return record.Draft{}, fmt.Errorf("--end (%s) is before --start (%s)", c.End, c.Start)
	}

	duration := c.Duration
	if duration < 0 {
		duration = int64(end.Sub(start).Seconds())
	}

	return record.Draft{StartTime: start, EndTime: end, Duration: duration}, nil
}

// run stores d through the repository (used by tests).
func (c *AddCommand) run(ctx context.Context, a *app, d record.Draft) error {
	rec, err := a.repo.Create(ctx, d)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(rec)
	}

	fmt.Printf("Added session %s\n", rec.ID)
	fmt.Printf("  Start:    %s\n", formatLocal(rec.StartTime))
	fmt.Printf("  End:      %s\n", formatLocal(rec.EndTime))
	fmt.Printf("  Duration: %s\n", formatSeconds(rec.Duration))
	return nil
}
