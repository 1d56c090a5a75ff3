// Package storage persists whole JSON documents under string keys.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Store is the key-value collaborator behind the tracker. Values are opaque
// JSON text; a missing key is reported with found == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Supported driver names.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Options selects and configures a backend.
type Options struct {
	Driver      string
	SQLitePath  string
	RedisPrefix string
	Redis       RedisClient
	GormDB      *gorm.DB
}

// Open builds the Store named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverSQLite, "":
		s, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("redis storage: client not configured")
		}
		return NewRedisStore(opts.Redis, opts.RedisPrefix), nil
	case DriverMySQL:
		if opts.GormDB == nil {
			return nil, fmt.Errorf("mysql storage: database not initialized")
		}
		return NewGormStore(opts.GormDB), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
