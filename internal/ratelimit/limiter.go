package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Action names a rate-limited verb. Create and cancel draw from separate
// buckets so a burst of one cannot starve the other.
type Action string

const (
	ActionCreate Action = "create"
	ActionCancel Action = "cancel"
	ActionUpdate Action = "update"
)

// Limiter is the first gate of the booking pipeline: it sheds load before
// any validation or locking work runs.
type Limiter struct {
	store    Store
	capacity int
	window   time.Duration
	log      *zap.Logger

	now func() time.Time
}

func NewLimiter(store Store, capacity int, window time.Duration, log *zap.Logger) *Limiter {
	return &Limiter{
		store:    store,
		capacity: capacity,
		window:   window,
		log:      log.With(zap.String("component", "ratelimit")),
		now:      time.Now,
	}
}

// Allow spends one token from the caller's bucket for the given action.
func (l *Limiter) Allow(ctx context.Context, userID uuid.UUID, action Action) (Decision, error) {
	key := fmt.Sprintf("%s:%s", userID.String(), action)

	dec, err := l.store.Take(ctx, key, l.capacity, l.window, l.now())
	if err != nil {
		l.log.Error("Rate limit store failed",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("action", string(action)),
		)
		return Decision{}, err
	}

	if !dec.Allowed {
		l.log.Warn("Rate limit exceeded",
			zap.String("user_id", userID.String()),
			zap.String("action", string(action)),
			zap.Duration("retry_after", dec.RetryAfter),
		)
	}

	return dec, nil
}
