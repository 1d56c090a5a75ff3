package routes

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/config"
	"github.com/applytrack/applytrack/models"
	"github.com/applytrack/applytrack/storage"
	"github.com/applytrack/applytrack/testutil"
	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.SetRedis(nil)
	m.Run()
}

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	cfg.GinMode = "test"
	cfg.GinPath = ""
	cfg.RateLimitPerMinute = 6000
	return cfg
}

func setup(t *testing.T, cfg config.AppConfig) (*gin.Engine, *tracker.Tracker) {
	t.Helper()
	tr := tracker.New(storage.NewMemoryStore(),
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithSanitizer(utils.HTMLSanitizer{}),
	)
	return SetupRouter(cfg, tr), tr
}

func code(resp map[string]interface{}) int {
	c, _ := resp["code"].(float64)
	return int(c)
}

func TestHealth(t *testing.T) {
	r, _ := setup(t, testConfig(t))

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/health", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", testutil.Data(resp)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestApplicationLifecycle(t *testing.T) {
	r, _ := setup(t, testConfig(t))

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"company":  "<b>Acme</b>",
		"position": "Backend Engineer",
		"notes":    "referral from Sam<script>alert(1)</script>",
	}, "", r, "/api/v1/applications", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)

	data := testutil.Data(resp)
	app := data["application"].(map[string]interface{})
	assert.Equal(t, "Acme", app["company"])
	assert.Equal(t, "referral from Sam", app["notes"])
	assert.Equal(t, "Applied", app["status"])
	id := int64(app["id"].(float64))
	assert.Equal(t, fixedNow.UnixMilli(), id)

	g := data["gamification"].(map[string]interface{})
	assert.Equal(t, true, g["celebrate"])
	assert.Equal(t, []interface{}{"first_app"}, g["new_badges"])

	path := fmt.Sprintf("/api/v1/applications/%d", id)

	rec, resp = testutil.MakeJSONRequest(gin.H{
		"company":       "Acme",
		"position":      "Backend Engineer",
		"status":        "Selected",
		"offeredSalary": 150000,
		"currency":      "usd",
	}, "", r, path, http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code)
	app = testutil.Data(resp)["application"].(map[string]interface{})
	assert.Equal(t, "USD", app["currency"])
	assert.Equal(t, "2024-06-15T12:00:00.000Z", app["dateApplied"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"date": "2024-06-20", "notes": "panel"}, "", r, path+"/interviews", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)
	app = testutil.Data(resp)["application"].(map[string]interface{})
	interviews := app["interviews"].([]interface{})
	require.Len(t, interviews, 1)
	assert.Equal(t, "Phone Screen", interviews[0].(map[string]interface{})["type"])

	rec, _ = testutil.MakeJSONRequest(nil, "", r, path+"/interviews/0", http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{"company": "AT&T", "position": "Network Engineer"}, "", r, "/api/v1/applications", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/applications?search=AT%26T", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), testutil.Data(resp)["total"])

	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/applications?search=acme&status=Selected", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), testutil.Data(resp)["total"])

	rec, _ = testutil.MakeJSONRequest(nil, "", r, path, http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = testutil.MakeJSONRequest(nil, "", r, path, http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 40420, code(resp))
}

func TestApplicationErrors(t *testing.T) {
	r, _ := setup(t, testConfig(t))

	rec, resp := testutil.MakeJSONRequest(gin.H{"company": "Acme"}, "", r, "/api/v1/applications", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 40020, code(resp))

	rec, resp = testutil.MakeJSONRequest(gin.H{"company": "Acme", "position": "Dev", "jdLink": "javascript:alert(1)"}, "", r, "/api/v1/applications", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 40020, code(resp))

	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/applications/abc", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 40010, code(resp))

	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/applications?status=Ghosted", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 40011, code(resp))

	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/nope", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 40400, code(resp))
}

func TestStatsAndSalary(t *testing.T) {
	r, tr := setup(t, testConfig(t))
	ctx := context.Background()

	_, err := tr.CreateApplication(ctx, tracker.ApplicationInput{
		Company: "Acme", Position: "Dev", Status: models.StatusSelected,
		ExpectedSalary: testutil.Float64Ptr(100000), OfferedSalary: testutil.Float64Ptr(120000),
	})
	require.NoError(t, err)
	_, err = tr.CreateApplication(ctx, tracker.ApplicationInput{Company: "Globex", Position: "Dev"})
	require.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/api/v1/stats", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := testutil.Data(resp)
	assert.Equal(t, float64(2), stats["total"])
	assert.Equal(t, float64(50), stats["success_rate"])

	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/salary", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries := testutil.Data(resp)["summaries"].([]interface{})
	require.Len(t, summaries, 1)
	assert.Equal(t, float64(20), summaries[0].(map[string]interface{})["improvement_pct"])
}

func TestGamificationEndpoints(t *testing.T) {
	r, tr := setup(t, testConfig(t))

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/api/v1/gamification", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, testutil.Data(resp)["badges"])

	_, err := tr.CreateApplication(context.Background(), tracker.ApplicationInput{Company: "Acme", Position: "Dev", Status: models.StatusInterviewing})
	require.NoError(t, err)

	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/gamification/refresh", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)
	state := testutil.Data(resp)["state"].(map[string]interface{})
	assert.Equal(t, float64(50), state["points"])
	assert.Equal(t, float64(1), state["streak"])
}

func TestThemeEndpoints(t *testing.T) {
	r, _ := setup(t, testConfig(t))

	_, resp := testutil.MakeJSONRequest(nil, "", r, "/api/v1/theme", http.MethodGet)
	assert.Equal(t, "light", testutil.Data(resp)["mode"])

	_, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/theme/toggle", http.MethodPost)
	assert.Equal(t, "dark", testutil.Data(resp)["mode"])

	rec, resp := testutil.MakeJSONRequest(gin.H{"mode": "sepia"}, "", r, "/api/v1/theme", http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 40030, code(resp))

	rec, _ = testutil.MakeJSONRequest(gin.H{"mode": "light"}, "", r, "/api/v1/theme", http.MethodPut)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/theme", http.MethodGet)
	assert.Equal(t, "light", testutil.Data(resp)["mode"])
}

func TestConfigEndpoints(t *testing.T) {
	r, _ := setup(t, testConfig(t))

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/api/v1/config/badges", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["data"], len(models.BadgeCatalog))

	_, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/config/statuses", http.MethodGet)
	assert.Len(t, testutil.Data(resp)["statuses"], 5)
	assert.Equal(t, "INR", testutil.Data(resp)["default_currency"])
}

func TestExportImport(t *testing.T) {
	r, _ := setup(t, testConfig(t))

	docs := []gin.H{
		{"id": 1, "company": "Acme", "position": "Dev", "status": "Selected", "dateApplied": "2024-06-14T09:00:00.000Z", "interviews": []gin.H{}},
		{"id": 2, "company": "Globex", "position": "SRE", "status": "Rejected", "dateApplied": "2024-06-15T09:00:00.000Z", "interviews": []gin.H{}},
	}
	rec, resp := testutil.MakeJSONRequest(docs, "", r, "/api/v1/import", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)
	state := testutil.Data(resp)["state"].(map[string]interface{})
	assert.Equal(t, float64(110), state["points"])
	assert.Equal(t, float64(2), state["streak"])

	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/export", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["data"], 2)

	rec, resp = testutil.MakeJSONRequest([]gin.H{{"company": "<script>x</script>Acme", "position": "Dev", "status": "Applied"}}, "", r, "/api/v1/import", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 40020, code(resp))

	rec, _ = testutil.MakeJSONRequest([]gin.H{{"id": 9, "company": "<script>x</script>Acme", "position": "Dev", "status": "Applied"}}, "", r, "/api/v1/import", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/api/v1/applications/9", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", testutil.Data(resp)["company"])
	rec, _ = testutil.MakeJSONRequest(nil, "", r, "/api/v1/applications/9", http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	dup := []gin.H{{"id": 1, "company": "A", "position": "B"}, {"id": 1, "company": "C", "position": "D"}}
	rec, resp = testutil.MakeJSONRequest(dup, "", r, "/api/v1/import", http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 40920, code(resp))
}

func TestPasscodeLock(t *testing.T) {
	cfg := testConfig(t)
	hash, err := utils.HashPasscode("open-sesame")
	require.NoError(t, err)
	cfg.AccessPasscodeHash = hash
	cfg.JWTSecret = testSecret
	r, _ := setup(t, cfg)

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/api/v1/applications", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 40101, code(resp))

	rec, _ = testutil.MakeJSONRequest(nil, "", r, "/api/v1/config/badges", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = testutil.MakeJSONRequest(gin.H{"passcode": "wrong"}, "", r, "/api/v1/auth/login", http.MethodPost)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 40106, code(resp))

	rec, resp = testutil.MakeJSONRequest(gin.H{"passcode": "open-sesame"}, "", r, "/api/v1/auth/login", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)
	token := testutil.Data(resp)["token"].(string)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/api/v1/applications", http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/api/v1/auth/logout", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = testutil.MakeJSONRequest(nil, token, r, "/api/v1/applications", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 40104, code(resp))
}

func TestLoginDisabledWithoutPasscode(t *testing.T) {
	r, _ := setup(t, testConfig(t))

	rec, resp := testutil.MakeJSONRequest(gin.H{"passcode": "x"}, "", r, "/api/v1/auth/login", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 40401, code(resp))
}
