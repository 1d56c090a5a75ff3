package utils

import (
	"context"
	"sync"
	"time"
)

const blacklistPrefix = "jwt:blacklist:"

var (
	// revoked maps a token to its natural expiry; used when Redis is off.
	revoked   = map[string]time.Time{}
	revokedMu sync.Mutex
)

// BlacklistToken revokes token until expiresAt. Redis keeps it with a TTL;
// without Redis it lives in process memory.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, blacklistPrefix+token, "1", ttl).Err(); err != nil {
			Sugar.Warnf("blacklist store failed err=%v", err)
		}
		return
	}

	revokedMu.Lock()
	defer revokedMu.Unlock()
	now := time.Now()
	for t, exp := range revoked {
		if now.After(exp) {
			delete(revoked, t)
		}
	}
	revoked[token] = expiresAt
}

// IsTokenBlacklisted reports whether token was revoked before its expiry.
// Redis lookup errors are logged and treated as not revoked.
func IsTokenBlacklisted(token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, blacklistPrefix+token).Result()
		if err != nil {
			Sugar.Warnf("blacklist lookup failed err=%v", err)
			return false
		}
		return n > 0
	}

	revokedMu.Lock()
	defer revokedMu.Unlock()
	exp, ok := revoked[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(revoked, token)
		return false
	}
	return true
}
