package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

// StatsController serves the derived dashboard and salary reports.
type StatsController struct {
	tracker *tracker.Tracker
	ttl     time.Duration
}

// NewStatsController creates a new StatsController instance. Reports are
// cached in Redis for ttl when Redis is enabled.
func NewStatsController(t *tracker.Tracker, ttl time.Duration) *StatsController {
	return &StatsController{tracker: t, ttl: ttl}
}

// GetStats returns status counts, rates, response time and the monthly histogram.
func (s *StatsController) GetStats(ctx *gin.Context) {
	// reports depend on "today", so the day is part of the key
	cacheKey := s.cacheKey("summary")
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	payload := s.tracker.Stats(ctx.Request.Context())
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, s.ttl)
	utils.Success(ctx, payload)
}

// GetSalary returns per-currency salary aggregates and the top offers.
func (s *StatsController) GetSalary(ctx *gin.Context) {
	cacheKey := s.cacheKey("salary")
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	payload := s.tracker.SalaryReport(ctx.Request.Context())
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, s.ttl)
	utils.Success(ctx, payload)
}

func (s *StatsController) cacheKey(report string) string {
	return utils.StatsCachePrefix + report + ":" + s.tracker.Today()
}
