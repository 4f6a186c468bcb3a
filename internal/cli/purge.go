package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/runnerr0/timerlog/internal/storage"
)

// setStore allows tests to inject a store.
func (c *PurgeCommand) setStore(store *storage.SQLiteStore) {
	c.store = store
}

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("\u26a0 WARNING: This will permanently delete ALL locally cached sessions.")
		fmt.Println("  Sessions that never reached the record service are lost.")
		fmt.Println("  The record service itself is not touched.")
		fmt.Println()
		fmt.Print(`Type "PURGE" to confirm: `)

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		input := strings.TrimSpace(scanner.Text())
		if input != "PURGE" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	if c.store != nil {
		return c.purge(context.Background(), c.store)
	}
	return withApp(c.globals, func(ctx context.Context, a *app) error {
		return c.purge(ctx, a.store)
	})
}

func (c *PurgeCommand) purge(ctx context.Context, store *storage.SQLiteStore) error {
	if err := store.Purge(ctx); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"purged":  true,
			"message": "local cache cleared",
		}
		return printJSON(out)
	}

	fmt.Println("Purged local cache. Run `timerlog list` to refill it from the record service.")
	return nil
}
