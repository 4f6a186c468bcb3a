package cli

import (
	"bytes"
	"database/sql"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/timerlog/internal/config"
	"github.com/runnerr0/timerlog/internal/server"
	"github.com/runnerr0/timerlog/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// openTestStore creates a migrated in-memory local store.
func openTestStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.NewLocalMigrationRunner(db).Run())

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

// newOfflineApp returns an app whose remote sync is disabled.
func newOfflineApp(t *testing.T) *app {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Remote.Enabled = false
	return newTestApp(t, cfg)
}

// newOnlineApp returns an app synced with an in-process record service.
func newOnlineApp(t *testing.T) (*app, *server.Store) {
	t.Helper()
	db, dialect, err := server.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svcStore := server.NewStore(db, dialect)
	h := server.NewHandler(svcStore, slog.New(slog.NewTextHandler(io.Discard, nil)), 7)
	srv := httptest.NewServer(server.NewRouter(h))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Remote.BaseURL = srv.URL
	cfg.Remote.UserID = "tester"
	return newTestApp(t, cfg), svcStore
}

func newTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()
	store, db := openTestStore(t)
	a := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), store)
	a.db = db
	a.dbPath = ":memory:"
	a.configPath = "test-config.yaml"
	return a
}
