package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/runnerr0/timerlog/internal/config"
	"github.com/runnerr0/timerlog/internal/logging"
	"github.com/runnerr0/timerlog/internal/remote"
	"github.com/runnerr0/timerlog/internal/repository"
	"github.com/runnerr0/timerlog/internal/storage"
)

// app is everything a command needs, built once from the config.
type app struct {
	cfg        *config.Config
	configPath string
	dbPath     string
	logger     *slog.Logger

	db     *sql.DB
	store  *storage.SQLiteStore
	client *remote.Client
	probe  repository.Prober
	repo   *repository.Repository

	closers []io.Closer
}

// loadConfig resolves the config file (creating defaults when missing) and
// applies environment overrides.
func loadConfig(globals *GlobalFlags) (*config.Config, string, error) {
	path := config.DefaultConfigPath
	if globals != nil && globals.Config != "" {
		path = globals.Config
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadOrCreateAt(path)
	if err != nil {
		return nil, "", err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

// openApp loads configuration, sets up logging and opens the local store.
func openApp(globals *GlobalFlags) (*app, error) {
	cfg, path, err := loadConfig(globals)
	if err != nil {
		return nil, err
	}

	verbose := globals != nil && globals.Verbose
	logger, logCloser, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	store, db, err := storage.Open(dbPath, cfg.Storage.Driver, cfg.Storage.SQLiteJournalMode)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := newApp(cfg, logger, store)
	a.configPath = path
	a.dbPath = dbPath
	a.db = db
	a.closers = []io.Closer{store, db, logCloser}
	return a, nil
}

// newApp wires the remote client and repository around an open store.
func newApp(cfg *config.Config, logger *slog.Logger, store *storage.SQLiteStore) *app {
	client := remote.NewClient(
		remote.Session{
			BaseURL: cfg.Remote.BaseURL,
			UserID:  cfg.Remote.UserID,
			Token:   cfg.Remote.Token,
		},
		remote.WithHTTPClient(&http.Client{Timeout: cfg.Remote.RequestTimeout()}),
		remote.WithProbeTimeout(cfg.Remote.ProbeTimeout()),
	)

	var probe repository.Prober = client
	if !cfg.Remote.Enabled {
		probe = remote.Offline{}
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		client: client,
		probe:  probe,
		repo: repository.New(store, client, probe,
			repository.WithLogger(logger),
			repository.WithWindowDays(cfg.Stats.WindowDays),
		),
	}
}

func (a *app) Close() error {
	for _, c := range a.closers {
		c.Close()
	}
	return nil
}

// withApp opens the app, runs fn and closes the app.
func withApp(globals *GlobalFlags, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(globals)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(context.Background(), a)
}
