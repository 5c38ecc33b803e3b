package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chsearch:ratelimit:"

// RedisLimiter shares fixed-window counters across instances through Redis.
// The counter key carries the window start, so expiry and reset are the same
// operation.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	span   time.Duration
	clock  func() time.Time
}

// NewRedisLimiter allows limit requests per key per span, counted in Redis.
func NewRedisLimiter(client *redis.Client, limit int, span time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, span: span, clock: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.clock()
	windowStart := now.Truncate(l.span)
	redisKey := fmt.Sprintf("%s%s:%d", redisKeyPrefix, key, windowStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// Expire a little past the window end so slow clocks cannot lose the key
	// while the window is still open.
	pipe.Expire(ctx, redisKey, l.span+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}

	count := int(incr.Val())
	if count > l.limit {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: windowStart.Add(l.span).Sub(now),
		}, nil
	}
	return Decision{Allowed: true, Remaining: l.limit - count}, nil
}
