package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/applytrack/applytrack/config"
)

var (
	redisClient *redis.Client
	redisMu     sync.RWMutex
)

// InitRedis builds the shared Redis client when the configuration asks for it.
// It returns nil when Redis is disabled so callers fall back to in-process paths.
func InitRedis(cfg config.AppConfig) *redis.Client {
	if !cfg.UseRedis() {
		SetRedis(nil)
		return nil
	}
	rc := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		Sugar.Warnf("redis ping failed addr=%s err=%v", rc.Options().Addr, err)
	}
	SetRedis(rc)
	return rc
}

// SetRedis replaces the shared client. Passing nil disables Redis-backed helpers.
func SetRedis(rc *redis.Client) {
	redisMu.Lock()
	redisClient = rc
	redisMu.Unlock()
}

// GetRedis returns the shared Redis client, or nil when Redis is not in use.
func GetRedis() *redis.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return redisClient
}
