package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Environment variables that override the config file.
const (
	EnvRemoteURL = "TIMERLOG_REMOTE_URL"
	EnvUserID    = "TIMERLOG_USER_ID"
	EnvToken     = "TIMERLOG_TOKEN"
	EnvServerDSN = "TIMERLOG_SERVER_DSN"
	EnvLogLevel  = "TIMERLOG_LOG_LEVEL"
)

// ApplyEnv overlays non-empty environment variables onto c.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		name string
		dst  *string
	}{
		{EnvRemoteURL, &c.Remote.BaseURL},
		{EnvUserID, &c.Remote.UserID},
		{EnvToken, &c.Remote.Token},
		{EnvServerDSN, &c.Server.DSN},
		{EnvLogLevel, &c.Logging.Level},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.name)); v != "" {
			*o.dst = v
		}
	}
}

// Validate reports every invalid setting in c.
func (c *Config) Validate() error {
	var errs []error

	if c.Remote.Enabled {
		u, err := url.Parse(c.Remote.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("remote.base_url: %q is not an absolute URL", c.Remote.BaseURL))
		}
	}
	if c.Remote.UserID == "" {
		errs = append(errs, errors.New("remote.user_id: must not be empty"))
	}
	if c.Remote.ProbeTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("remote.probe_timeout_seconds: must be positive, got %d", c.Remote.ProbeTimeoutSeconds))
	}
	if c.Remote.RequestTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("remote.request_timeout_seconds: must be positive, got %d", c.Remote.RequestTimeoutSeconds))
	}

	switch c.Storage.Driver {
	case "sqlite3", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q (want sqlite3 or sqlite)", c.Storage.Driver))
	}
	if c.Storage.SQLiteFile == "" {
		errs = append(errs, errors.New("storage.sqlite_file: must not be empty"))
	}

	if c.Stats.WindowDays <= 0 {
		errs = append(errs, fmt.Errorf("stats.window_days: must be positive, got %d", c.Stats.WindowDays))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q (want text or json)", c.Logging.Format))
	}

	return errors.Join(errs...)
}
