package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// StorageKey is the local store key holding the full record set.
const StorageKey = "timer_records"

// Record is a single completed timer session. Records are created and
// deleted, never modified.
type Record struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Duration  int64 // seconds, as measured by the caller
}

// Draft is a record that has not been assigned an ID yet.
type Draft struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  int64
}

// WithID turns the draft into a Record.
func (d Draft) WithID(id string) Record {
	return Record{
		ID:        id,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Duration:  d.Duration,
	}
}

// Draft returns the record without its ID.
func (r Record) Draft() Draft {
	return Draft{
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Duration:  r.Duration,
	}
}

type recordJSON struct {
	ID        json.RawMessage `json:"id,omitempty"`
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Duration  int64           `json:"duration"`
}

// MarshalJSON writes times as RFC 3339.
func (r Record) MarshalJSON() ([]byte, error) {
	id, err := json.Marshal(r.ID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(recordJSON{
		ID:        id,
		StartTime: FormatTime(r.StartTime),
		EndTime:   FormatTime(r.EndTime),
		Duration:  r.Duration,
	})
}

// UnmarshalJSON accepts string or numeric ids and any layout understood by
// ParseTime.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	start, err := ParseTime(raw.StartTime)
	if err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	end, err := ParseTime(raw.EndTime)
	if err != nil {
		return fmt.Errorf("endTime: %w", err)
	}

	*r = Record{ID: id, StartTime: start, EndTime: end, Duration: raw.Duration}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return "", fmt.Errorf("id: not an integer: %s", n)
	}
	return n.String(), nil
}

// FormatTime renders t the way records are written on the wire.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTime tries the timestamp layouts produced by the local store and by
// remote services. Layouts without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %q", s)
}
