// Package ratelimit implements a per-client fixed-window request limiter.
//
// State is in-memory only: a process restart resets every counter, which is
// acceptable for a best-effort abuse guard in front of a contact form.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxTracked caps the number of distinct client identifiers kept in
// the table so that callers rotating source addresses cannot grow memory
// without bound.
const DefaultMaxTracked = 4096

type record struct {
	windowStart time.Time
	count       int
}

// Limiter admits or rejects requests per client identifier using
// fixed-window counting. Safe for concurrent use.
type Limiter struct {
	mu         sync.Mutex
	window     time.Duration
	max        int
	maxTracked int
	records    map[string]*record
}

type Option func(*Limiter)

// WithMaxTracked overrides the tracked-client cap.
func WithMaxTracked(n int) Option {
	return func(l *Limiter) { l.maxTracked = n }
}

func New(maxRequests int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		window:     window,
		max:        maxRequests,
		maxTracked: DefaultMaxTracked,
		records:    make(map[string]*record),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether a request from clientID arriving at now is within
// the limit, and records it when admitted. For a given client the decisions
// are strictly ordered by the sequence of calls.
//
// The first request of a window, or any request arriving after the window
// has fully elapsed, resets the client's record to {now, 1} and is
// admitted. Within a live window the request is rejected once maxRequests
// have been counted; a rejection mutates nothing.
func (l *Limiter) Allow(clientID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[clientID]
	if !ok {
		if len(l.records) >= l.maxTracked {
			l.prune(now)
		}
		if len(l.records) >= l.maxTracked {
			// Table is full of live windows; refuse rather than
			// let rotating identifiers bypass the limit.
			return false
		}
		l.records[clientID] = &record{windowStart: now, count: 1}
		return true
	}

	if now.Sub(rec.windowStart) > l.window {
		rec.windowStart = now
		rec.count = 1
		return true
	}

	if rec.count >= l.max {
		return false
	}

	rec.count++
	return true
}

// Sweep drops every record whose window had already elapsed at now.
func (l *Limiter) Sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(now)
}

func (l *Limiter) prune(now time.Time) {
	for id, rec := range l.records {
		if now.Sub(rec.windowStart) > l.window {
			delete(l.records, id)
		}
	}
}

// Len returns the number of tracked client identifiers.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Reset clears the whole table. Test harness escape hatch, not part of the
// request-handling contract.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = make(map[string]*record)
}

// StartJanitor sweeps expired records on a ticker until ctx is cancelled.
func (l *Limiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				l.Sweep(now)
			}
		}
	}()
}
