package suggest

import (
	"context"
	"sync"
)

// Suggester is satisfied by *Client.
type Suggester interface {
	Suggest(ctx context.Context) string
}

// Fetcher keeps at most one suggestion request in flight. A new request
// cancels the previous one, and results of superseded requests are
// recognisable through Current.
type Fetcher struct {
	src Suggester

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewFetcher(src Suggester) *Fetcher {
	return &Fetcher{src: src}
}

// Request cancels any in-flight request and returns the id of the new one
// with the function that performs it. run blocks and is meant to be called
// off the UI loop.
func (f *Fetcher) Request(parent context.Context) (uint64, func() string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	f.seq++
	f.cancel = cancel

	id := f.seq
	return id, func() string {
		defer cancel()
		return f.src.Suggest(ctx)
	}
}

// Current reports whether id is the latest request and has not been
// cancelled. Results for any other id must be dropped.
func (f *Fetcher) Current(id uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return id == f.seq && f.cancel != nil
}

// Cancel aborts the in-flight request, if any, and invalidates its id.
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
