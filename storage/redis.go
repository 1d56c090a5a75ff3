package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// DefaultRedisPrefix namespaces document keys in a shared Redis.
const DefaultRedisPrefix = "applytrack:"

// RedisStore keeps each document as a plain string value without expiry.
type RedisStore struct {
	rc     RedisClient
	prefix string
}

// NewRedisStore wraps rc. An empty prefix falls back to DefaultRedisPrefix.
func NewRedisStore(rc RedisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{rc: rc, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rc.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.rc.Set(ctx, s.prefix+key, value, 0).Err()
}

// Close is a no-op: the client is shared and closed by its owner.
func (s *RedisStore) Close() error { return nil }
