package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid application id")
		return 0, false
	}
	return id, true
}

// respondTrackerError maps tracker errors onto the response envelope.
func respondTrackerError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40420, "application not found")
	case errors.Is(err, tracker.ErrDuplicateID):
		utils.Error(ctx, http.StatusConflict, 40920, err.Error())
	case errors.Is(err, tracker.ErrInvalidApplication):
		utils.Error(ctx, http.StatusBadRequest, 40020, err.Error())
	default:
		utils.Sugar.Errorf("tracker operation failed path=%s err=%v", ctx.Request.URL.Path, err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to save applications")
	}
}

// invalidateReports drops cached stats after any change to the collection.
func invalidateReports() {
	utils.InvalidateByPrefix(utils.StatsCachePrefix)
}
