package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/config"
	"github.com/applytrack/applytrack/controllers"
	"github.com/applytrack/applytrack/middleware"
	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, t *tracker.Tracker) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		utils.Sugar.Warnf("gin logger init failed path=%s err=%v", cfg.GinPath, err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		// wildcard origins cannot be combined with credentials
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(cfg.AccessPasscodeHash, cfg.JWTSecret, cfg.TokenTTL())
	applicationController := controllers.NewApplicationController(t)
	statsController := controllers.NewStatsController(t, cfg.CacheTTL())
	gamificationController := controllers.NewGamificationController(t)
	themeController := controllers.NewThemeController(t)
	transferController := controllers.NewTransferController(t)
	configController := controllers.NewConfigController()

	authRequired := middleware.AuthRequired(cfg.AuthEnabled(), cfg.JWTSecret)
	writeLimit := middleware.RateLimitMiddleware("write", cfg.RateLimitPerMinute)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware("auth", cfg.RateLimitPerMinute))
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", authRequired, authController.Logout)

	// Public config endpoints
	api.GET("/config/badges", configController.GetBadges)
	api.GET("/config/statuses", configController.GetStatuses)

	protected := api.Group("")
	protected.Use(authRequired)

	protected.GET("/applications", applicationController.ListApplications)
	protected.GET("/applications/:id", applicationController.GetApplication)
	protected.POST("/applications", writeLimit, applicationController.CreateApplication)
	protected.PUT("/applications/:id", writeLimit, applicationController.UpdateApplication)
	protected.DELETE("/applications/:id", writeLimit, applicationController.DeleteApplication)
	protected.POST("/applications/:id/interviews", writeLimit, applicationController.AddInterview)
	protected.DELETE("/applications/:id/interviews/:index", writeLimit, applicationController.RemoveInterview)

	protected.GET("/stats", statsController.GetStats)
	protected.GET("/salary", statsController.GetSalary)

	protected.GET("/gamification", gamificationController.GetState)
	protected.POST("/gamification/refresh", writeLimit, gamificationController.Refresh)

	protected.GET("/theme", themeController.GetTheme)
	protected.PUT("/theme", writeLimit, themeController.SetTheme)
	protected.POST("/theme/toggle", writeLimit, themeController.ToggleTheme)

	protected.GET("/export", transferController.Export)
	protected.POST("/import", writeLimit, transferController.Import)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
