package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/models"
	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

// ApplicationController exposes CRUD over job applications and their interviews.
type ApplicationController struct {
	tracker *tracker.Tracker
}

// NewApplicationController creates a new ApplicationController instance.
func NewApplicationController(t *tracker.Tracker) *ApplicationController {
	return &ApplicationController{tracker: t}
}

// ListApplications returns applications newest first, filtered by ?search= and ?status=.
func (a *ApplicationController) ListApplications(ctx *gin.Context) {
	filter := tracker.Filter{
		Query:  ctx.Query("search"),
		Status: ctx.Query("status"),
	}
	if filter.Status != "" && filter.Status != tracker.StatusAll && !models.Status(filter.Status).Valid() {
		utils.Error(ctx, http.StatusBadRequest, 40011, "unknown status filter")
		return
	}
	items := a.tracker.ListApplications(ctx.Request.Context(), filter)
	utils.Success(ctx, gin.H{
		"items": items,
		"total": len(items),
	})
}

// GetApplication returns a single application.
func (a *ApplicationController) GetApplication(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	app, err := a.tracker.GetApplication(ctx.Request.Context(), id)
	if err != nil {
		respondTrackerError(ctx, err)
		return
	}
	utils.Success(ctx, app)
}

// CreateApplication records a new application.
func (a *ApplicationController) CreateApplication(ctx *gin.Context) {
	in, ok := bindInput(ctx)
	if !ok {
		return
	}
	res, err := a.tracker.CreateApplication(ctx.Request.Context(), in)
	if err != nil {
		respondTrackerError(ctx, err)
		return
	}
	invalidateReports()
	utils.Created(ctx, res)
}

// UpdateApplication replaces an application, keeping its id and dateApplied.
func (a *ApplicationController) UpdateApplication(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	in, ok := bindInput(ctx)
	if !ok {
		return
	}
	res, err := a.tracker.UpdateApplication(ctx.Request.Context(), id, in)
	if err != nil {
		respondTrackerError(ctx, err)
		return
	}
	invalidateReports()
	utils.Success(ctx, res)
}

// DeleteApplication removes an application.
func (a *ApplicationController) DeleteApplication(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	res, err := a.tracker.DeleteApplication(ctx.Request.Context(), id)
	if err != nil {
		respondTrackerError(ctx, err)
		return
	}
	invalidateReports()
	utils.Success(ctx, res)
}

// AddInterview schedules an interview on an application.
func (a *ApplicationController) AddInterview(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var iv models.Interview
	if err := ctx.ShouldBindJSON(&iv); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}
	res, err := a.tracker.AddInterview(ctx.Request.Context(), id, iv)
	if err != nil {
		respondTrackerError(ctx, err)
		return
	}
	invalidateReports()
	utils.Created(ctx, res)
}

// RemoveInterview deletes the interview at :index.
func (a *ApplicationController) RemoveInterview(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid interview index")
		return
	}
	res, err := a.tracker.RemoveInterview(ctx.Request.Context(), id, index)
	if err != nil {
		respondTrackerError(ctx, err)
		return
	}
	invalidateReports()
	utils.Success(ctx, res)
}

func bindInput(ctx *gin.Context) (tracker.ApplicationInput, bool) {
	var in tracker.ApplicationInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return in, false
	}
	return in, true
}
