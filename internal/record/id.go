package record

import (
	"strconv"
	"time"
)

// NewID returns a time-based ID (Unix milliseconds) that does not collide
// with any ID in existing. On collision the millisecond value is bumped
// until it is free.
func NewID(now time.Time, existing []Record) string {
	taken := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		taken[r.ID] = struct{}{}
	}

	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		ms++
	}
}
