package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const UpcomingKey = "bookings:upcoming"

// RoomDayKey caches a room's schedule for one day.
func RoomDayKey(roomID int64, day time.Time) string {
	return fmt.Sprintf("bookings:room:%d:%s", roomID, day.Format("2006-01-02"))
}

// UserDayKey caches a user's bookings for one day.
func UserDayKey(userID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("bookings:user:%s:%s", userID.String(), day.Format("2006-01-02"))
}

// Invalidator evicts the read models that depend on a booking after every
// successful mutation. Failures are logged and swallowed: the caller's
// write has already committed and must not be rolled back over a cache.
type Invalidator struct {
	cache Cache
	log   *zap.Logger
}

func NewInvalidator(cache Cache, log *zap.Logger) *Invalidator {
	return &Invalidator{
		cache: cache,
		log:   log.With(zap.String("component", "cache-invalidator")),
	}
}

// BookingChanged evicts the room's day schedule, the user's day list, and
// the global upcoming aggregate.
func (i *Invalidator) BookingChanged(ctx context.Context, roomID int64, userID uuid.UUID, day time.Time) {
	keys := []string{
		RoomDayKey(roomID, day),
		UserDayKey(userID, day),
		UpcomingKey,
	}

	if err := i.cache.Delete(ctx, keys...); err != nil {
		i.log.Warn("Cache eviction failed",
			zap.Error(err),
			zap.Int64("room_id", roomID),
			zap.String("user_id", userID.String()),
		)
		return
	}

	i.log.Debug("Cache evicted",
		zap.Int64("room_id", roomID),
		zap.String("user_id", userID.String()),
	)
}
