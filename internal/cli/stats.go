package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	return withApp(c.globals, c.run)
}

// run prints statistics from the repository (used by tests).
func (c *StatsCommand) run(ctx context.Context, a *app) error {
	snap, err := a.repo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(snap)
	}

	fmt.Println("Session Stats")
	fmt.Println("=============")
	fmt.Printf("Sessions:      %s\n", formatNumber(snap.TotalCount))
	fmt.Printf("Total time:    %s\n", formatSeconds(snap.TotalDuration))
	fmt.Printf("Average:       %s\n", formatSeconds(snap.AverageDuration))

	if len(snap.DailyCounts) > 0 {
		fmt.Println()
		fmt.Println("Daily:")
		for _, d := range snap.DailyCounts {
			fmt.Printf("  %s  %s\n", d.Date, formatNumber(d.Count))
		}
	}
	return nil
}
