package cli

import "github.com/runnerr0/timerlog/internal/storage"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// AddCommand records a finished session.
type AddCommand struct {
	Start    string `long:"start" description:"Session start (RFC 3339 or \"YYYY-MM-DD HH:MM[:SS]\" local time)"`
	End      string `long:"end" description:"Session end, same formats as --start"`
	Duration int64  `long:"duration" description:"Duration in seconds (defaults to end - start)" default:"-1"`

	globals *GlobalFlags
	version string
}

// ListCommand lists sessions, newest first.
type ListCommand struct {
	Since string `long:"since" description:"Only sessions started within duration (e.g., 7d, 24h, 2w)"`
	Limit int    `long:"limit" description:"Maximum results (0 = all)" default:"0"`

	globals *GlobalFlags
	version string
}

// DeleteCommand deletes one session by ID.
type DeleteCommand struct {
	ID string `long:"id" description:"Record ID (required)"`

	globals *GlobalFlags
	version string
}

// StatsCommand shows totals and the daily histogram.
type StatsCommand struct {
	globals *GlobalFlags
	version string
}

// StatusCommand shows configuration, local cache size and remote reachability.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand clears the local record cache after a safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	store   *storage.SQLiteStore // injectable for testing; nil means open from config
}

// ServeCommand runs the reference record service.
type ServeCommand struct {
	Addr string `long:"addr" description:"Listen address (overrides server.addr)"`
	DSN  string `long:"dsn" description:"Database DSN: SQLite path or postgres:// URL (overrides server.dsn)"`

	globals *GlobalFlags
	version string
}
