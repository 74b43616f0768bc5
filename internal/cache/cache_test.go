package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); err != ErrMiss {
		t.Fatalf("expected ErrMiss for absent key, got %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != "v" {
		t.Fatalf("expected %q, got %q", "v", value)
	}

	if err := c.Delete(ctx, "k", "also-missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Get(ctx, "k"); err != ErrMiss {
		t.Fatalf("expected ErrMiss after delete, got %v", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Get(ctx, "k"); err != ErrMiss {
		t.Fatalf("expected ErrMiss for expired key, got %v", err)
	}
}

func TestKeys(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	userID := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	if got := RoomDayKey(7, day); got != "bookings:room:7:2025-06-02" {
		t.Fatalf("unexpected room key %q", got)
	}
	if got := UserDayKey(userID, day); got != "bookings:user:0f8fad5b-d9cb-469f-a165-70867728950e:2025-06-02" {
		t.Fatalf("unexpected user key %q", got)
	}
}

func TestInvalidator_EvictsAllDependentKeys(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	userID := uuid.New()

	keys := []string{RoomDayKey(1, day), UserDayKey(userID, day), UpcomingKey, RoomDayKey(2, day)}
	for _, key := range keys {
		c.Set(ctx, key, []byte("cached"), time.Minute)
	}

	NewInvalidator(c, zap.NewNop()).BookingChanged(ctx, 1, userID, day)

	for _, key := range keys[:3] {
		if _, err := c.Get(ctx, key); err != ErrMiss {
			t.Fatalf("expected %q evicted, got %v", key, err)
		}
	}

	// Another room's schedule is untouched
	if _, err := c.Get(ctx, RoomDayKey(2, day)); err != nil {
		t.Fatalf("expected unrelated key to survive, got %v", err)
	}
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("down")
}

func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("down")
}

func (failingCache) Delete(ctx context.Context, keys ...string) error {
	return errors.New("down")
}

// Eviction failures are swallowed: the booking write already committed.
func TestInvalidator_SwallowsCacheFailure(t *testing.T) {
	inv := NewInvalidator(failingCache{}, zap.NewNop())
	inv.BookingChanged(context.Background(), 1, uuid.New(), time.Now())
}
