package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/timerlog/internal/record"
)

var utcStart = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func session(start time.Time, seconds int64) record.Draft {
	return record.Draft{
		StartTime: start,
		EndTime:   start.Add(time.Duration(seconds) * time.Second),
		Duration:  seconds,
	}
}

// --- add ---

func TestAddCommand_Draft(t *testing.T) {
	cmd := &AddCommand{Start: "2024-01-01T10:00:00Z", End: "2024-01-01T10:25:00Z", Duration: -1}
	d, err := cmd.draft()
	require.NoError(t, err)
	assert.Equal(t, int64(1500), d.Duration)
	assert.True(t, d.StartTime.Equal(utcStart))
}

func TestAddCommand_ExplicitDurationKept(t *testing.T) {
	cmd := &AddCommand{Start: "2024-01-01T10:00:00Z", End: "2024-01-01T10:25:00Z", Duration: 1200}
	d, err := cmd.draft()
	require.NoError(t, err)
	assert.Equal(t, int64(1200), d.Duration, "paused time is not derived from the timestamps")
}

func TestAddCommand_LocalTimeInput(t *testing.T) {
	cmd := &AddCommand{Start: "2024-01-01 10:00", End: "2024-01-01 10:00:30", Duration: -1}
	d, err := cmd.draft()
	require.NoError(t, err)
	assert.Equal(t, time.Local, d.StartTime.Location())
	assert.Equal(t, int64(30), d.Duration)
}

func TestAddCommand_InvalidTime(t *testing.T) {
	cmd := &AddCommand{Start: "noon", End: "2024-01-01 10:00", Duration: -1}
	_, err := cmd.draft()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")
}

func TestAddCommand_Offline(t *testing.T) {
	a := newOfflineApp(t)
	cmd := &AddCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(context.Background(), a, session(utcStart, 90)))
	})

	assert.Contains(t, output, "Added session")
	assert.Contains(t, output, "1m 30s")

	local, err := a.store.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Equal(t, int64(90), local[0].Duration)
}

func TestAddCommand_JSONOutput(t *testing.T) {
	a := newOfflineApp(t)
	cmd := &AddCommand{globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(context.Background(), a, session(utcStart, 60)))
	})

	var rec record.Record
	require.NoError(t, json.Unmarshal([]byte(output), &rec), "output should be valid JSON: %s", output)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, int64(60), rec.Duration)
}

func TestAddCommand_OnlinePushesToService(t *testing.T) {
	a, svc := newOnlineApp(t)
	cmd := &AddCommand{globals: &GlobalFlags{}}

	captureOutput(t, func() {
		require.NoError(t, cmd.run(context.Background(), a, session(utcStart, 60)))
	})

	remote, err := svc.List(context.Background(), "tester")
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, int64(60), remote[0].Duration)
}

// --- list ---

func TestListCommand_NewestFirstAndLimit(t *testing.T) {
	a := newOfflineApp(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := a.repo.Create(ctx, session(utcStart.Add(time.Duration(i)*time.Hour), int64(i+1)))
		require.NoError(t, err)
	}

	cmd := &ListCommand{Limit: 2, globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(ctx, a, 0, utcStart))
	})

	var recs []record.Record
	require.NoError(t, json.Unmarshal([]byte(output), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, int64(3), recs[0].Duration)
	assert.Equal(t, int64(2), recs[1].Duration)
}

func TestListCommand_Since(t *testing.T) {
	a := newOfflineApp(t)
	ctx := context.Background()
	now := utcStart.AddDate(0, 0, 10)

	_, err := a.repo.Create(ctx, session(now.AddDate(0, 0, -1), 1))
	require.NoError(t, err)
	_, err = a.repo.Create(ctx, session(now.AddDate(0, 0, -9), 2))
	require.NoError(t, err)

	cmd := &ListCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(ctx, a, 7*24*time.Hour, now))
	})

	var recs []record.Record
	require.NoError(t, json.Unmarshal([]byte(output), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].Duration)
}

func TestListCommand_EmptyHuman(t *testing.T) {
	a := newOfflineApp(t)
	cmd := &ListCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(context.Background(), a, 0, time.Now()))
	})
	assert.Contains(t, output, "No sessions.")
}

func TestListCommand_EmptyJSONIsArray(t *testing.T) {
	a := newOfflineApp(t)
	cmd := &ListCommand{globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(context.Background(), a, 0, time.Now()))
	})
	assert.Equal(t, "[]", strings.TrimSpace(output))
}

func TestListCommand_HumanTable(t *testing.T) {
	a := newOfflineApp(t)
	ctx := context.Background()
	rec, err := a.repo.Create(ctx, session(utcStart, 3725))
	require.NoError(t, err)

	cmd := &ListCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(ctx, a, 0, time.Now()))
	})

	assert.Contains(t, output, "DURATION")
	assert.Contains(t, output, rec.ID)
	assert.Contains(t, output, "1h 02m 05s")
	assert.Contains(t, output, "1 session(s)")
}

func TestListCommand_OnlineReplacesLocalCache(t *testing.T) {
	a, svc := newOnlineApp(t)
	ctx := context.Background()

	require.NoError(t, a.store.Put(ctx, []record.Record{session(utcStart, 5).WithID("local-only")}))
	_, err := svc.Insert(ctx, "tester", session(utcStart, 7))
	require.NoError(t, err)

	cmd := &ListCommand{globals: &GlobalFlags{JSON: true}}
	captureOutput(t, func() {
		require.NoError(t, cmd.run(ctx, a, 0, time.Now()))
	})

	local, err := a.store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Equal(t, int64(7), local[0].Duration)
}

// --- delete ---

func TestDeleteCommand(t *testing.T) {
	a := newOfflineApp(t)
	ctx := context.Background()
	rec, err := a.repo.Create(ctx, session(utcStart, 1))
	require.NoError(t, err)

	cmd := &DeleteCommand{ID: rec.ID, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(ctx, a))
	})
	assert.Contains(t, output, "Deleted session "+rec.ID)

	local, err := a.store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, local)

	// Deleting again is not an error.
	captureOutput(t, func() {
		require.NoError(t, cmd.run(ctx, a))
	})
}

func TestDeleteCommand_JSON(t *testing.T) {
	a := newOfflineApp(t)
	cmd := &DeleteCommand{ID: "42", globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(context.Background(), a))
	})

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, true, result["deleted"])
	assert.Equal(t, "42", result["id"])
}

// --- stats ---

func TestStatsCommand_OfflineHuman(t *testing.T) {
	a := newOfflineApp(t)
	ctx := context.Background()
	now := time.Now()
	for _, secs := range []int64{60, 120} {
		_, err := a.repo.Create(ctx, session(now.Add(-time.Hour), secs))
		require.NoError(t, err)
	}

	cmd := &StatsCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(ctx, a))
	})

	assert.Contains(t, output, "Sessions:      2")
	assert.Contains(t, output, "Total time:    3m 00s")
	assert.Contains(t, output, "Average:       1m 30s")
	assert.Contains(t, output, "Daily:")
}

func TestStatsCommand_JSONShape(t *testing.T) {
	a := newOfflineApp(t)
	cmd := &StatsCommand{globals: &GlobalFlags{JSON: true}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(context.Background(), a))
	})

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(output), &raw))
	assert.Contains(t, raw, "totalCount")
	assert.Contains(t, raw, "totalDuration")
	assert.Contains(t, raw, "averageDuration")
	assert.Contains(t, raw, "dailyCounts")

	var snap record.StatsSnapshot
	require.NoError(t, json.Unmarshal([]byte(output), &snap))
	assert.Len(t, snap.DailyCounts, 7)
}

func TestStatsCommand_OnlineUsesService(t *testing.T) {
	a, svc := newOnlineApp(t)
	ctx := context.Background()
	_, err := svc.Insert(ctx, "tester", session(time.Now().UTC().Add(-time.Minute), 10))
	require.NoError(t, err)

	cmd := &StatsCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(ctx, a))
	})

	var snap record.StatsSnapshot
	require.NoError(t, json.Unmarshal([]byte(output), &snap))
	assert.Equal(t, int64(1), snap.TotalCount, "the local cache is empty, so this came from the service")
}

// --- status ---

func TestStatusCommand_Offline(t *testing.T) {
	a := newOfflineApp(t)
	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(context.Background(), a))
	})

	assert.Contains(t, output, "timerlog Status")
	assert.Contains(t, output, "dev")
	assert.Contains(t, output, "Sessions:      0 cached locally")
	assert.Contains(t, output, "disabled (offline mode)")
}

func TestStatusCommand_OnlineJSON(t *testing.T) {
	a, _ := newOnlineApp(t)
	ctx := context.Background()
	_, err := a.repo.Create(ctx, session(utcStart, 1))
	require.NoError(t, err)

	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "1.0.0"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(ctx, a))
	})

	var out statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out), "output should be valid JSON: %s", output)
	assert.Equal(t, "1.0.0", out.Version)
	assert.Equal(t, int64(1), out.LocalRecords)
	assert.True(t, out.RemoteEnabled)
	assert.True(t, out.RemoteReachable)
	assert.Equal(t, "tester", out.UserID)
	assert.NotEmpty(t, out.LastWrite)
	assert.Greater(t, out.DatabaseSizeBytes, int64(0))
}

func TestStatusCommand_Unreachable(t *testing.T) {
	cfg := newOfflineApp(t).cfg
	cfg.Remote.Enabled = true
	cfg.Remote.BaseURL = "http://127.0.0.1:1"
	cfg.Remote.ProbeTimeoutSeconds = 1
	a := newTestApp(t, cfg)

	cmd := &StatusCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.run(context.Background(), a))
	})
	assert.Contains(t, output, "unreachable (working offline)")
}

// --- purge ---

func TestPurge_WithAllAndForce_Succeeds(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, []record.Record{session(utcStart, 1).WithID("1")}))

	cmd := &PurgeCommand{
		All:     true,
		Force:   true,
		globals: &GlobalFlags{},
	}
	cmd.setStore(store)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})
	assert.Contains(t, output, "Purged local cache")

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPurge_JSONOutput(t *testing.T) {
	store, _ := openTestStore(t)

	cmd := &PurgeCommand{
		All:     true,
		Force:   true,
		globals: &GlobalFlags{JSON: true},
	}
	cmd.setStore(store)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output should be valid JSON: %s", output)
	assert.Equal(t, true, result["purged"])
	assert.Equal(t, "local cache cleared", result["message"])
}
