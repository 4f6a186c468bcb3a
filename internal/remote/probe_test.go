package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbe_Available(t *testing.T) {
	var path, user string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		user = r.URL.Query().Get("user_id")
		io.WriteString(w, `{"totalCount":0}`)
	}))
	defer srv.Close()

	c := NewClient(Session{BaseURL: srv.URL, UserID: "bob"})
	assert.True(t, c.Probe(context.Background()))
	assert.Equal(t, "/stats", path)
	assert.Equal(t, "bob", user)
}

func TestProbe_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c := NewClient(Session{BaseURL: srv.URL, UserID: "bob"})
		assert.False(t, c.Probe(context.Background()), "status %d", status)
		srv.Close()
	}
}

func TestProbe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Session{BaseURL: url, UserID: "bob"})
	assert.False(t, c.Probe(context.Background()))
}

func TestProbe_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Session{BaseURL: srv.URL, UserID: "bob"}, WithProbeTimeout(50*time.Millisecond))

	start := time.Now()
	assert.False(t, c.Probe(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestProbe_NotCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) > 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(Session{BaseURL: srv.URL, UserID: "bob"})
	assert.True(t, c.Probe(context.Background()))
	assert.False(t, c.Probe(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestProbe_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Session{BaseURL: srv.URL, UserID: "bob"})
	assert.False(t, c.Probe(ctx))
}

func TestOffline(t *testing.T) {
	assert.False(t, Offline{}.Probe(context.Background()))
}
