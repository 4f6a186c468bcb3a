package record

import (
	"bytes"
	"encoding/json"
	"sort"
)

// DateLayout is the key format of DailyCounts.
const DateLayout = "2006-01-02"

// StatsSnapshot holds aggregate statistics over a record set. It is derived
// on every request and never persisted.
type StatsSnapshot struct {
	TotalCount      int64       `json:"totalCount"`
	TotalDuration   int64       `json:"totalDuration"`
	AverageDuration int64       `json:"averageDuration"`
	DailyCounts     DailyCounts `json:"dailyCounts"`
}

// DayCount pairs a calendar date with the number of sessions started on it.
type DayCount struct {
	Date  string
	Count int64
}

// DailyCounts is a date histogram kept in ascending date order. On the wire
// it is a JSON object keyed by date.
type DailyCounts []DayCount

// Get returns the count for date, or 0 if the date is not present.
func (d DailyCounts) Get(date string) int64 {
	for _, dc := range d {
		if dc.Date == date {
			return dc.Count
		}
	}
	return 0
}

// Dates returns the dates in order.
func (d DailyCounts) Dates() []string {
	dates := make([]string, len(d))
	for i, dc := range d {
		dates[i] = dc.Date
	}
	return dates
}

// MarshalJSON writes an object whose keys appear in ascending date order.
func (d DailyCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dc := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(dc.Date)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(dc.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a date-keyed object and sorts it by date.
func (d *DailyCounts) UnmarshalJSON(data []byte) error {
	var m map[string]int64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := make(DailyCounts, 0, len(m))
	for date, count := range m {
		out = append(out, DayCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	*d = out
	return nil
}
