package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds environment driven configuration values.
// Secrets should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort            string   `envconfig:"APP_PORT"`
	Timezone           string   `envconfig:"APP_TIMEZONE"`
	DefaultTheme       string   `envconfig:"DEFAULT_THEME"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE"`
	AllowedOrigins     []string `envconfig:"ALLOWED_ORIGINS"`
	// Gin framework configuration
	GinMode string `envconfig:"GIN_MODE"`
	GinPath string `envconfig:"GIN_PATH"`
	// Document storage
	StorageDriver string `envconfig:"STORAGE_DRIVER"`
	SQLitePath    string `envconfig:"SQLITE_PATH"`
	// MySQL, used when StorageDriver is "mysql"
	DatabaseURI string `envconfig:"DATABASE_URI"`
	DBHost      string `envconfig:"DB_HOST"`
	DBPort      string `envconfig:"DB_PORT"`
	DBUser      string `envconfig:"DB_USER"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME"`
	// Redis for storage, stats cache, token blacklist and celebration events
	RedisEnabled       bool   `envconfig:"REDIS_ENABLED"`
	RedisHost          string `envconfig:"REDIS_HOST"`
	RedisPort          int    `envconfig:"REDIS_PORT"`
	RedisDB            int    `envconfig:"REDIS_DB"`
	RedisPassword      string `envconfig:"REDIS_PASSWORD"`
	RedisPrefix        string `envconfig:"REDIS_PREFIX"`
	CacheTTLSeconds    int    `envconfig:"CACHE_TTL_SECONDS"`
	CelebrationChannel string `envconfig:"CELEBRATION_CHANNEL"`
	// Optional passcode lock
	JWTSecret          string `envconfig:"JWT_SECRET"`
	AccessPasscodeHash string `envconfig:"ACCESS_PASSCODE_HASH"`
	TokenTTLHours      int    `envconfig:"TOKEN_TTL_HOURS"`
	// Logging configuration
	LogLevel      string `envconfig:"LOG_LEVEL"`
	LogPath       string `envconfig:"LOG_PATH"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS"`
	LogCompress   bool   `envconfig:"LOG_COMPRESS"`
}

var cfg AppConfig
var loaded bool

// DefaultPath is where Load looks for the JSON config file.
var DefaultPath = filepath.Join("config", "config.json")

// Load loads the application configuration once during boot.
func Load() (AppConfig, error) {
	if loaded {
		return cfg, nil
	}
	c, err := LoadFrom(DefaultPath)
	if err != nil {
		return AppConfig{}, err
	}
	cfg = c
	loaded = true
	return cfg, nil
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		c, err := Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		return c
	}
	return cfg
}

// LoadFrom builds a configuration without touching the package cache.
// Precedence: JSON file -> defaults -> environment variable overrides.
func LoadFrom(path string) (AppConfig, error) {
	var c AppConfig

	// 1) JSON config (supports both flat and grouped keys); a missing file is fine
	if err := loadJSONConfig(path, &c); err != nil {
		return AppConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	// 2) Fill defaults for any zero values
	applyDefaults(&c)

	// 3) Override from environment variables when set
	if err := envconfig.Process("", &c); err != nil {
		return AppConfig{}, fmt.Errorf("failed to process env overrides: %w", err)
	}

	if err := c.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// loadJSONConfig reads JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil // silently ignore missing file
	}

	// flat keys map straight onto the struct field names
	if err := json.Unmarshal(b, out); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			if f, ok := v.(float64); ok {
				return int(f)
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) (bool, bool) {
		if v, ok := m[key]; ok {
			b, ok := v.(bool)
			return b, ok
		}
		return false, false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if arr, ok := m[key].([]any); ok {
			res := make([]string, 0, len(arr))
			for _, it := range arr {
				if s, ok := it.(string); ok {
					res = append(res, s)
				}
			}
			return res
		}
		return nil
	}
	setString := func(dst *string, m map[string]any, key string) {
		if v := getString(m, key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, m map[string]any, key string) {
		if v := getInt(m, key); v != 0 {
			*dst = v
		}
	}

	if app, ok := raw["app"].(map[string]any); ok {
		setString(&out.AppPort, app, "AppPort")
		setString(&out.Timezone, app, "Timezone")
		setString(&out.DefaultTheme, app, "DefaultTheme")
		setInt(&out.RateLimitPerMinute, app, "RateLimitPerMinute")
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		setString(&out.GinMode, g, "Mode")
		setString(&out.GinPath, g, "LogPath")
	}

	if st, ok := raw["storage"].(map[string]any); ok {
		setString(&out.StorageDriver, st, "Driver")
		setString(&out.SQLitePath, st, "SQLitePath")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		setString(&out.DatabaseURI, dbs, "DatabaseURI")
		setString(&out.DBHost, dbs, "DBHost")
		setString(&out.DBPort, dbs, "DBPort")
		setString(&out.DBUser, dbs, "DBUser")
		setString(&out.DBPassword, dbs, "DBPassword")
		setString(&out.DBName, dbs, "DBName")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		if b, ok := getBool(rds, "Enabled"); ok {
			out.RedisEnabled = b
		}
		setString(&out.RedisHost, rds, "RedisHost")
		setInt(&out.RedisPort, rds, "RedisPort")
		setInt(&out.RedisDB, rds, "RedisDB")
		setString(&out.RedisPassword, rds, "RedisPassword")
		setString(&out.RedisPrefix, rds, "Prefix")
		setInt(&out.CacheTTLSeconds, rds, "CacheTTLSeconds")
		setString(&out.CelebrationChannel, rds, "CelebrationChannel")
	}

	if au, ok := raw["auth"].(map[string]any); ok {
		setString(&out.JWTSecret, au, "JWTSecret")
		setString(&out.AccessPasscodeHash, au, "PasscodeHash")
		setInt(&out.TokenTTLHours, au, "TokenTTLHours")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		setString(&out.LogLevel, lg, "Level")
		setString(&out.LogPath, lg, "Path")
		setString(&out.GinMode, lg, "GinMode")
		setString(&out.GinPath, lg, "GinPath")
		setInt(&out.LogMaxSizeMB, lg, "MaxSizeMB")
		setInt(&out.LogMaxBackups, lg, "MaxBackups")
		setInt(&out.LogMaxAgeDays, lg, "MaxAgeDays")
		if b, ok := getBool(lg, "Compress"); ok {
			out.LogCompress = b
		}
	}

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.DefaultTheme == "" {
		c.DefaultTheme = "light"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 120
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.StorageDriver == "" {
		c.StorageDriver = "sqlite"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "data/applytrack.db"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "applytrack"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.RedisPrefix == "" {
		c.RedisPrefix = "applytrack:"
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 300
	}
	if c.CelebrationChannel == "" {
		c.CelebrationChannel = "applytrack:celebrations"
	}
	if c.TokenTTLHours == 0 {
		c.TokenTTLHours = 168
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// Validate rejects values the rest of the service cannot work with.
func (c AppConfig) Validate() error {
	switch strings.ToLower(c.StorageDriver) {
	case "sqlite", "redis", "mysql", "memory":
	default:
		return fmt.Errorf("invalid storage driver: %s (must be one of: sqlite, redis, mysql, memory)", c.StorageDriver)
	}
	if c.DefaultTheme != "dark" && c.DefaultTheme != "light" {
		return fmt.Errorf("invalid default theme: %s (must be dark or light)", c.DefaultTheme)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.RateLimitPerMinute < 1 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be at least 1")
	}
	if c.AuthEnabled() && len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters when a passcode is configured")
	}
	return nil
}

// Location resolves Timezone; invalid names fall back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AuthEnabled reports whether the passcode lock is on.
func (c AppConfig) AuthEnabled() bool {
	return c.AccessPasscodeHash != ""
}

// UseRedis reports whether a Redis client should be created.
func (c AppConfig) UseRedis() bool {
	return c.RedisEnabled || strings.EqualFold(c.StorageDriver, "redis")
}

// CacheTTL is the lifetime of cached stats payloads.
func (c AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// TokenTTL is the lifetime of issued access tokens.
func (c AppConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}
