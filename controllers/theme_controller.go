package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/models"
	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

// ThemeController reads and switches the dark/light preference.
type ThemeController struct {
	tracker *tracker.Tracker
}

// NewThemeController creates a new controller instance.
func NewThemeController(t *tracker.Tracker) *ThemeController {
	return &ThemeController{tracker: t}
}

// GetTheme returns the current mode.
func (c *ThemeController) GetTheme(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"mode": c.tracker.Theme(ctx.Request.Context())})
}

// SetTheme stores {"mode": "dark"|"light"}.
func (c *ThemeController) SetTheme(ctx *gin.Context) {
	var req struct {
		Mode models.ThemeMode `json:"mode" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || !req.Mode.Valid() {
		utils.Error(ctx, http.StatusBadRequest, 40030, "mode must be dark or light")
		return
	}
	if err := c.tracker.SetTheme(ctx.Request.Context(), req.Mode); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to save theme")
		return
	}
	utils.Success(ctx, gin.H{"mode": req.Mode})
}

// ToggleTheme flips the mode.
func (c *ThemeController) ToggleTheme(ctx *gin.Context) {
	mode, err := c.tracker.ToggleTheme(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to save theme")
		return
	}
	utils.Success(ctx, gin.H{"mode": mode})
}
