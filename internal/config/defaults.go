package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			BaseURL:               "http://localhost:5000",
			UserID:                "default",
			Token:                 "",
			ProbeTimeoutSeconds:   2,
			RequestTimeoutSeconds: 10,
			Enabled:               true,
		},
		Storage: StorageConfig{
			Path:              "~/.config/timerlog",
			SQLiteFile:        "timerlog.db",
			Driver:            "sqlite3",
			SQLiteJournalMode: "wal",
		},
		Stats: StatsConfig{
			WindowDays: 7,
		},
		Server: ServerConfig{
			Addr: ":5000",
			DSN:  "timerlog-server.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "text",
		},
	}
}
