package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

func TestSuggestSuccess(t *testing.T) {
	var got request
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"text":"  Refill your water bottle.  "}`))
	})

	assert.Equal(t, "Refill your water bottle.", c.Suggest(context.Background()))
	assert.Equal(t, prompt, got.Prompt)
}

func TestSuggestFallbacks(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"text":"ignored"}`))
		}},
		{"wrong content type", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte(`{"text":"ignored"}`))
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"text":`))
		}},
		{"blank text", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"text":"   "}`))
		}},
		{"missing text", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, tt.h)
			assert.Contains(t, Fallbacks, c.Suggest(context.Background()))
		})
	}
}

func TestSuggestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	assert.Contains(t, Fallbacks, c.Suggest(context.Background()))
}

func TestSuggestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := NewClient(srv.URL, 50*time.Millisecond)
	start := time.Now()
	assert.Contains(t, Fallbacks, c.Suggest(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSuggestWithoutEndpoint(t *testing.T) {
	assert.Contains(t, Fallbacks, NewClient("", 0).Suggest(context.Background()))

	var nilClient *Client
	assert.Contains(t, Fallbacks, nilClient.Suggest(context.Background()))
}

func TestNewClientDefaultTimeout(t *testing.T) {
	assert.Equal(t, defaultTimeout, NewClient("http://x", 0).timeout)
}

// ============================================================
// Fetcher
// ============================================================

type blockingSuggester struct {
	mu      sync.Mutex
	started chan struct{}
	ctxs    []context.Context
}

func (b *blockingSuggester) Suggest(ctx context.Context) string {
	b.mu.Lock()
	b.ctxs = append(b.ctxs, ctx)
	b.mu.Unlock()
	b.started <- struct{}{}
	<-ctx.Done()
	return "cancelled"
}

type staticSuggester string

func (s staticSuggester) Suggest(context.Context) string { return string(s) }

func TestFetcherSupersedes(t *testing.T) {
	src := &blockingSuggester{started: make(chan struct{}, 2)}
	f := NewFetcher(src)

	first, run1 := f.Request(context.Background())
	done := make(chan string, 1)
	go func() { done <- run1() }()
	<-src.started

	second, _ := f.Request(context.Background())
	require.NotEqual(t, first, second)

	select {
	case out := <-done:
		assert.Equal(t, "cancelled", out)
	case <-time.After(2 * time.Second):
		t.Fatal("first request was not cancelled")
	}
	assert.False(t, f.Current(first))
	assert.True(t, f.Current(second))
}

func TestFetcherCancel(t *testing.T) {
	f := NewFetcher(staticSuggester("stretch"))
	id, run := f.Request(context.Background())
	assert.Equal(t, "stretch", run())
	assert.True(t, f.Current(id), "a finished request stays current until superseded")

	f.Cancel()
	assert.False(t, f.Current(id))

	// Cancel without anything in flight is a no-op.
	f.Cancel()
}

func TestFetcherCancelAbortsRun(t *testing.T) {
	src := &blockingSuggester{started: make(chan struct{}, 1)}
	f := NewFetcher(src)

	_, run := f.Request(context.Background())
	done := make(chan string, 1)
	go func() { done <- run() }()
	<-src.started

	f.Cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after Cancel")
	}
}
