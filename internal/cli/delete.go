package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for delete command")
	}

	return withApp(c.globals, c.run)
}

// run deletes the session through the repository (used by tests).
func (c *DeleteCommand) run(ctx context.Context, a *app) error {
	if err := a.repo.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(map[string]any{"deleted": true, "id": c.ID})
	}

	fmt.Printf("Deleted session %s\n", c.ID)
	return nil
}
