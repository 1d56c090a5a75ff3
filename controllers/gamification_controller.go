package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

// GamificationController exposes streak, points and badges.
type GamificationController struct {
	tracker *tracker.Tracker
}

// NewGamificationController creates a new controller instance.
func NewGamificationController(t *tracker.Tracker) *GamificationController {
	return &GamificationController{tracker: t}
}

// GetState returns the persisted gamification document.
func (g *GamificationController) GetState(ctx *gin.Context) {
	utils.Success(ctx, g.tracker.Gamification(ctx.Request.Context()))
}

// Refresh recomputes streak, points and badges from the stored applications.
func (g *GamificationController) Refresh(ctx *gin.Context) {
	res, err := g.tracker.RefreshGamification(ctx.Request.Context())
	if err != nil {
		respondTrackerError(ctx, err)
		return
	}
	utils.Success(ctx, res)
}
