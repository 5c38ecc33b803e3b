package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"chsearch/pkg/platform/sentinel"
)

const redisKeyPrefix = "chsearch:"

// RedisStore is the durable cache tier. Expiry is delegated to redis TTLs,
// so a missing key covers both "never cached" and "expired".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected redis client as a cache tier.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the payload for key, or sentinel.ErrNotFound when absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores the payload with an atomic set-with-expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
}
