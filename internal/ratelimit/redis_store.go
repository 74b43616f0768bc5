package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript performs the window-reset read-modify-write atomically on the
// Redis side, so concurrent replicas cannot double-spend a token.
// KEYS[1] bucket key; ARGV: capacity, window ms, now ms.
// Returns {allowed, remaining, retry_after_ms}.
var takeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill')
local tokens = tonumber(state[1])
local last = tonumber(state[2])

if tokens == nil or last == nil or now - last >= window then
	redis.call('HSET', KEYS[1], 'tokens', capacity - 1, 'last_refill', now)
	redis.call('PEXPIRE', KEYS[1], window)
	return {1, capacity - 1, 0}
end

if tokens > 0 then
	redis.call('HSET', KEYS[1], 'tokens', tokens - 1)
	return {1, tokens - 1, 0}
end

return {0, 0, window - (now - last)}
`)

// RedisStore is a Store shared by all replicas of the admission path.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RedisStore) Take(ctx context.Context, key string, capacity int, window time.Duration, now time.Time) (Decision, error) {
	result, err := takeScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		capacity,
		window.Milliseconds(),
		now.UnixMilli(),
	).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit take %s: %w", key, err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return Decision{}, fmt.Errorf("rate limit take %s: unexpected script reply %v", key, result)
	}

	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	retryMs, _ := values[2].(int64)

	dec := Decision{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
	}
	if !dec.Allowed {
		secs := (retryMs + 999) / 1000
		dec.RetryAfter = time.Duration(secs) * time.Second
	}

	return dec, nil
}
