package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/models"
	"github.com/applytrack/applytrack/utils"
)

// ConfigController serves the static vocabularies a client renders from.
type ConfigController struct{}

func NewConfigController() *ConfigController { return &ConfigController{} }

// GetBadges returns the badge catalog.
func (c *ConfigController) GetBadges(ctx *gin.Context) {
	utils.Success(ctx, models.BadgeCatalog)
}

// GetStatuses returns the closed status domain plus the interview type default.
func (c *ConfigController) GetStatuses(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"statuses":               models.Statuses,
		"default_status":         models.StatusApplied,
		"default_currency":       models.DefaultCurrency,
		"default_interview_type": models.DefaultInterviewType,
	})
}
