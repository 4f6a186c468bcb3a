// Package remote talks to the authoritative record service over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/runnerr0/timerlog/internal/record"
)

// maxErrorBody caps how much of a failed response body is kept for errors.
const maxErrorBody = 512

// Session is the caller identity sent with every request. The Authorization
// header is omitted when Token is empty.
type Session struct {
	BaseURL string
	UserID  string
	Token   string
}

// Client performs record CRUD and stats calls against the remote service.
type Client struct {
	session      Session
	httpClient   *http.Client
	probe        *http.Client
	probeTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the client used for record and stats calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithProbeTimeout bounds the availability probe.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) { c.probeTimeout = d }
}

// NewClient returns a client bound to session.
func NewClient(session Session, opts ...Option) *Client {
	c := &Client{
		session:      session,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		probeTimeout: 2 * time.Second,
	}
	c.session.BaseURL = strings.TrimRight(session.BaseURL, "/")
	for _, opt := range opts {
		opt(c)
	}
	c.probe = &http.Client{Timeout: c.probeTimeout, Transport: c.httpClient.Transport}
	return c
}

// Session returns the session the client was built with.
func (c *Client) Session() Session {
	return c.session
}

type createRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int64  `json:"duration"`
	UserID    string `json:"user_id"`
}

// List fetches the full remote record set for the session user.
func (c *Client) List(ctx context.Context) ([]record.Record, error) {
	var out []record.Record
	if err := c.do(ctx, c.httpClient, "list", http.MethodGet, "/records", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []record.Record{}
	}
	return out, nil
}

// Create sends a new record. The remote assigns its own ID, which is not
// returned.
func (c *Client) Create(ctx context.Context, d record.Draft) error {
	body := createRequest{
		StartTime: record.FormatTime(d.StartTime),
		EndTime:   record.FormatTime(d.EndTime),
		Duration:  d.Duration,
		UserID:    c.session.UserID,
	}
	return c.do(ctx, c.httpClient, "create", http.MethodPost, "/records", body, nil)
}

// Delete removes a record by ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, c.httpClient, "delete", http.MethodDelete, "/records/"+url.PathEscape(id), nil, nil)
}

// Stats fetches the remote statistics snapshot.
func (c *Client) Stats(ctx context.Context) (record.StatsSnapshot, error) {
	var out record.StatsSnapshot
	if err := c.do(ctx, c.httpClient, "stats", http.MethodGet, "/stats", nil, &out); err != nil {
		return record.StatsSnapshot{}, err
	}
	return out, nil
}

func (c *Client) endpoint(path string) string {
	q := url.Values{}
	q.Set("user_id", c.session.UserID)
	return c.session.BaseURL + path + "?" + q.Encode()
}

// do sends one request and decodes a JSON response into out when non-nil.
// All failures come back as *record.RemoteFailure.
func (c *Client) do(ctx context.Context, hc *http.Client, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &record.RemoteFailure{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return &record.RemoteFailure{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return &record.RemoteFailure{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &record.RemoteFailure{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &record.RemoteFailure{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
