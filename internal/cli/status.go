package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string `json:"version"`
	ConfigPath        string `json:"config_path"`
	DatabasePath      string `json:"database_path"`
	DatabaseSizeBytes int64  `json:"database_size_bytes"`
	LocalRecords      int64  `json:"local_records"`
	LastWrite         string `json:"last_write,omitempty"`
	RemoteURL         string `json:"remote_url"`
	UserID            string `json:"user_id"`
	RemoteEnabled     bool   `json:"remote_enabled"`
	RemoteReachable   bool   `json:"remote_reachable"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withApp(c.globals, c.run)
}

// run gathers status from the app (used by tests).
func (c *StatusCommand) run(ctx context.Context, a *app) error {
	local, err := a.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("read local cache: %w", err)
	}
	lastWrite, err := a.store.UpdatedAt(ctx)
	if err != nil {
		return fmt.Errorf("read local cache: %w", err)
	}

	out := statusJSON{
		Version:           c.version,
		ConfigPath:        a.configPath,
		DatabasePath:      a.dbPath,
		DatabaseSizeBytes: getDatabaseSize(a.db, a.dbPath),
		LocalRecords:      int64(len(local)),
		RemoteURL:         a.cfg.Remote.BaseURL,
		UserID:            a.cfg.Remote.UserID,
		RemoteEnabled:     a.cfg.Remote.Enabled,
		RemoteReachable:   a.probe.Probe(ctx),
	}
	if !lastWrite.IsZero() {
		out.LastWrite = lastWrite.UTC().Format(time.RFC3339)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(out)
	}
	return c.printHuman(out, lastWrite)
}

func (c *StatusCommand) printHuman(s statusJSON, lastWrite time.Time) error {
	fmt.Println("timerlog Status")
	fmt.Println("===============")
	fmt.Printf("Version:       %s\n", s.Version)
	fmt.Printf("Config:        %s\n", s.ConfigPath)
	fmt.Printf("Database:      %s (%s)\n", s.DatabasePath, formatBytes(s.DatabaseSizeBytes))
	fmt.Printf("Sessions:      %s cached locally\n", formatNumber(s.LocalRecords))
	if !lastWrite.IsZero() {
		fmt.Printf("Last write:    %s\n", formatLocal(lastWrite))
	}

	fmt.Println()
	fmt.Printf("Remote:        %s\n", s.RemoteURL)
	fmt.Printf("User:          %s\n", s.UserID)
	switch {
	case !s.RemoteEnabled:
		fmt.Println("Sync:          disabled (offline mode)")
	case s.RemoteReachable:
		fmt.Println("Sync:          reachable")
	default:
		fmt.Println("Sync:          unreachable (working offline)")
	}
	return nil
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	if db == nil {
		return 0
	}
	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}
