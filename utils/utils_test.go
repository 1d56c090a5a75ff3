package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "owner", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "owner", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, "owner", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("another-secret-another-secret-xx", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(testSecret, "owner", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	_, err := GenerateToken("", "owner", time.Hour)
	assert.Error(t, err)
}

func TestBlacklist_MemoryFallback(t *testing.T) {
	SetRedis(nil)

	BlacklistToken("live", time.Now().Add(time.Hour))
	BlacklistToken("stale", time.Now().Add(-time.Second))

	assert.True(t, IsTokenBlacklisted("live"))
	assert.False(t, IsTokenBlacklisted("stale"))
	assert.False(t, IsTokenBlacklisted("never-seen"))
}

func TestCacheHelpers_NoRedis(t *testing.T) {
	SetRedis(nil)

	CacheSetJSON(StatsCachePrefix+"stats", map[string]int{"total": 1}, time.Minute)
	_, ok := CacheGetBytes(StatsCachePrefix + "stats")
	assert.False(t, ok)
	InvalidateByPrefix(StatsCachePrefix)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Acme", SanitizeText("<b>Acme</b>"))
	assert.Equal(t, "Backend Engineer", SanitizeText("  Backend Engineer  "))
	assert.Equal(t, "hello", Sanitize(`hello<script>alert(1)</script>`))
	assert.Equal(t, "<b>bold</b> note", Sanitize("<b>bold</b> note"))
}

func TestPasscodeHash(t *testing.T) {
	hash, err := HashPasscode("open-sesame")
	require.NoError(t, err)

	assert.True(t, CheckPasscode(hash, "open-sesame"))
	assert.False(t, CheckPasscode(hash, "wrong"))
}

func TestRecoveryWithZap(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithZap(Logger, true))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 50000, body.Code)
}

func TestDirOf(t *testing.T) {
	assert.Equal(t, "logs", dirOf("logs/app.log"))
	assert.Equal(t, "/", dirOf("/app.log"))
	assert.Equal(t, "", dirOf("app.log"))
}
