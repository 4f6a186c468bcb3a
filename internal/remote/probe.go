package remote

import (
	"context"
	"net/http"
)

// Probe reports whether the remote service answers the stats endpoint with a
// success status. Every failure, including a timeout, means unavailable.
// The result is never cached.
func (c *Client) Probe(ctx context.Context) bool {
	return c.do(ctx, c.probe, "probe", http.MethodGet, "/stats", nil, nil) == nil
}

// Offline is a probe that always reports the remote as unavailable. It is
// used when remote sync is disabled in the configuration.
type Offline struct{}

func (Offline) Probe(context.Context) bool { return false }
