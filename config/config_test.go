package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "sqlite", c.StorageDriver)
	assert.Equal(t, "data/applytrack.db", c.SQLitePath)
	assert.Equal(t, "light", c.DefaultTheme)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, time.UTC, c.Location())
	assert.False(t, c.AuthEnabled())
	assert.False(t, c.UseRedis())
	assert.Equal(t, 5*time.Minute, c.CacheTTL())
}

func TestLoadFrom_GroupedSections(t *testing.T) {
	path := writeConfig(t, `{
		"app": {"AppPort": "9090", "DefaultTheme": "dark", "AllowedOrigins": ["http://localhost:5173"]},
		"storage": {"Driver": "memory"},
		"redis": {"Enabled": true, "RedisPort": 6380, "Prefix": "t:"},
		"log": {"Level": "debug", "Compress": true}
	}`)

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "dark", c.DefaultTheme)
	assert.Equal(t, []string{"http://localhost:5173"}, c.AllowedOrigins)
	assert.Equal(t, "memory", c.StorageDriver)
	assert.True(t, c.UseRedis())
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, "t:", c.RedisPrefix)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.LogCompress)
}

func TestLoadFrom_FlatKeys(t *testing.T) {
	path := writeConfig(t, `{"AppPort": "7070", "StorageDriver": "redis", "RedisHost": "cache"}`)

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", c.AppPort)
	assert.Equal(t, "redis", c.StorageDriver)
	assert.Equal(t, "cache", c.RedisHost)
	assert.True(t, c.UseRedis())
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"app": {"AppPort": "9090"}}`)
	t.Setenv("APP_PORT", "6060")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("REDIS_ENABLED", "true")

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "6060", c.AppPort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.AllowedOrigins)
	assert.True(t, c.RedisEnabled)
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"app": `)

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() AppConfig {
		var c AppConfig
		applyDefaults(&c)
		return c
	}

	c := base()
	assert.NoError(t, c.Validate())

	c = base()
	c.StorageDriver = "bolt"
	assert.Error(t, c.Validate())

	c = base()
	c.DefaultTheme = "sepia"
	assert.Error(t, c.Validate())

	c = base()
	c.Timezone = "Mars/Olympus"
	assert.Error(t, c.Validate())

	c = base()
	c.AccessPasscodeHash = "$2a$10$hash"
	c.JWTSecret = "short"
	assert.Error(t, c.Validate())

	c.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, c.Validate())
}
