// Package ratelimit implements a window-reset token bucket keyed by
// (user, action). State lives in a Store so the admission path can scale
// horizontally: the in-memory store serves tests and single-node runs, the
// Redis store enforces one global budget across replicas.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one Take call.
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is zero when allowed; when denied it is the time left
	// until the window resets, rounded up to whole seconds.
	RetryAfter time.Duration
}

// Store performs one atomic read-modify-write of a bucket.
// Semantics are window-reset, not a continuous trickle:
//   - missing bucket or now-lastRefill >= window: allow, reset to capacity-1
//   - tokens remaining: decrement, allow
//   - otherwise: deny with the time left in the window
type Store interface {
	Take(ctx context.Context, key string, capacity int, window time.Duration, now time.Time) (Decision, error)
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// MemoryStore is a mutex-guarded single-process Store. Buckets expire
// lazily: any bucket older than the window is dead weight and gets swept.
type MemoryStore struct {
	mu        sync.Mutex
	buckets   map[string]bucket
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]bucket),
	}
}

func (s *MemoryStore) Take(ctx context.Context, key string, capacity int, window time.Duration, now time.Time) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(window, now)

	b, ok := s.buckets[key]
	if !ok || now.Sub(b.lastRefill) >= window {
		s.buckets[key] = bucket{tokens: capacity - 1, lastRefill: now}
		return Decision{Allowed: true, Remaining: capacity - 1}, nil
	}

	if b.tokens > 0 {
		b.tokens--
		s.buckets[key] = b
		return Decision{Allowed: true, Remaining: b.tokens}, nil
	}

	return Decision{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: retryAfter(window, now.Sub(b.lastRefill)),
	}, nil
}

// sweep drops expired buckets at most once per window.
func (s *MemoryStore) sweep(window time.Duration, now time.Time) {
	if now.Sub(s.lastSweep) < window {
		return
	}
	s.lastSweep = now

	for key, b := range s.buckets {
		if now.Sub(b.lastRefill) >= window {
			delete(s.buckets, key)
		}
	}
}

// retryAfter = ceil((window_ms - elapsed_ms) / 1000) seconds.
func retryAfter(window, elapsed time.Duration) time.Duration {
	leftMs := window.Milliseconds() - elapsed.Milliseconds()
	if leftMs <= 0 {
		return 0
	}
	secs := (leftMs + 999) / 1000
	return time.Duration(secs) * time.Second
}
