package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/runnerr0/timerlog/internal/config"
	"github.com/runnerr0/timerlog/internal/logging"
	"github.com/runnerr0/timerlog/internal/server"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, _, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.DSN != "" {
		cfg.Server.DSN = c.DSN
	}

	logger, logCloser, err := logging.New(cfg.Logging, c.globals != nil && c.globals.Verbose)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logCloser.Close()

	dsn, err := config.ExpandPath(cfg.Server.DSN)
	if err != nil {
		return err
	}
	db, dialect, err := server.OpenDB(dsn)
	if err != nil {
		return fmt.Errorf("opening service database: %w", err)
	}
	defer db.Close()
	logger.Info("record service database ready", "dialect", dialect.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := server.NewHandler(server.NewStore(db, dialect), logger, cfg.Stats.WindowDays)
	return server.ListenAndServe(ctx, cfg.Server.Addr, server.NewRouter(h), logger)
}
