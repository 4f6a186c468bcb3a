// Package stats computes session statistics from a record set when the
// remote service cannot do it.
package stats

import (
	"math"
	"time"

	"github.com/runnerr0/timerlog/internal/record"
)

// DefaultWindowDays is the length of the trailing daily histogram.
const DefaultWindowDays = 7

// Aggregate computes totals, the rounded average duration and a histogram of
// session starts over the windowDays calendar days ending at ref (inclusive).
// Days are taken in ref's location. Days without sessions map to 0, and
// sessions outside the window are not counted in the histogram.
func Aggregate(records []record.Record, windowDays int, ref time.Time) record.StatsSnapshot {
	if windowDays < 1 {
		windowDays = DefaultWindowDays
	}

	var snap record.StatsSnapshot
	snap.TotalCount = int64(len(records))
	for _, r := range records {
		snap.TotalDuration += r.Duration
	}
	if snap.TotalCount > 0 {
		snap.AverageDuration = int64(math.Round(float64(snap.TotalDuration) / float64(snap.TotalCount)))
	}

	snap.DailyCounts = window(ref, windowDays)
	index := make(map[string]int, windowDays)
	for i, dc := range snap.DailyCounts {
		index[dc.Date] = i
	}

	loc := ref.Location()
	for _, r := range records {
		day := r.StartTime.In(loc).Format(record.DateLayout)
		if i, ok := index[day]; ok {
			snap.DailyCounts[i].Count++
		}
	}

	return snap
}

// window returns days zeroed entries, oldest first, ending at ref's date.
func window(ref time.Time, days int) record.DailyCounts {
	y, m, d := ref.Date()
	out := make(record.DailyCounts, days)
	for i := 0; i < days; i++ {
		day := time.Date(y, m, d-(days-1-i), 0, 0, 0, 0, ref.Location())
		out[i] = record.DayCount{Date: day.Format(record.DateLayout)}
	}
	return out
}
