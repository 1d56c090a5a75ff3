package utils

import (
	"context"
	"encoding/json"
	"time"
)

const (
	defaultCacheTTL = 5 * time.Minute
	cacheOpTimeout  = 2 * time.Second
	scanBatch       = 500

	// StatsCachePrefix namespaces every derived-report cache entry.
	StatsCachePrefix = "cache:stats:"
)

// CacheGetBytes returns a cached response body. It always misses without Redis.
func CacheGetBytes(key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		Sugar.Debugf("cache miss key=%s err=%v", key, err)
		return nil, false
	}
	return b, true
}

// CacheSetJSON marshals v and stores it for ttl (defaultCacheTTL when ttl <= 0).
func CacheSetJSON(key string, v interface{}, ttl time.Duration) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		Sugar.Warnf("cache marshal failed key=%s err=%v", key, err)
		return
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// InvalidateByPrefix unlinks every key under prefix.
func InvalidateByPrefix(prefix string) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	batch := make([]string, 0, scanBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := rc.Unlink(ctx, batch...).Err(); err != nil {
			Sugar.Warnf("cache invalidate failed prefix=%s err=%v", prefix, err)
		}
		batch = batch[:0]
	}
	iter := rc.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			flush()
		}
	}
	if err := iter.Err(); err != nil {
		Sugar.Warnf("cache scan failed prefix=%s err=%v", prefix, err)
	}
	flush()
}
