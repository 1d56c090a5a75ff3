package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/utils"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.SetRedis(nil)
	m.Run()
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"subject": ctx.GetString(ContextSubjectKey)})
	})
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimitMiddleware(t.Name(), 2))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_ScopesAreIndependent(t *testing.T) {
	a := newEngine(RateLimitMiddleware(t.Name()+"-a", 2))
	b := newEngine(RateLimitMiddleware(t.Name()+"-b", 2))

	assert.Equal(t, http.StatusOK, get(a, nil).Code)
	assert.Equal(t, http.StatusOK, get(b, nil).Code)
}

func TestAuthRequired_Disabled(t *testing.T) {
	r := newEngine(AuthRequired(false, ""))
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(AuthRequired(true, testSecret))

	token, err := utils.GenerateToken(testSecret, "owner", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, http.Header{"Authorization": []string{"Token abc"}}).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, bearer("not-a-jwt")).Code)

	w := get(r, bearer(token))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subject":"owner"`)

	utils.BlacklistToken(token, time.Now().Add(time.Hour))
	assert.Equal(t, http.StatusUnauthorized, get(r, bearer(token)).Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := get(r, nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	const id = "6f1c1d2e-8a4b-4c1e-9f0a-3b2c1d0e9f8a"
	w = get(r, http.Header{RequestIDHeader: []string{id}})
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))

	w = get(r, http.Header{RequestIDHeader: []string{"<script>"}})
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}
