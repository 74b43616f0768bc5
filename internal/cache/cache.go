// Package cache is the read-cache collaborator boundary. It is strictly
// best-effort: the overlap invariant lives in the transactional store, so a
// missed eviction or a cold cache can never corrupt bookings.
package cache

import (
	"context"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
type cacheMiss struct{}

func (cacheMiss) Error() string { return "cache miss" }

var ErrMiss error = cacheMiss{}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
