package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

// maxImportBytes bounds the uploaded applications document.
const maxImportBytes = 8 << 20

// TransferController moves the whole applications document in and out.
type TransferController struct {
	tracker *tracker.Tracker
}

// NewTransferController creates a new controller instance.
func NewTransferController(t *tracker.Tracker) *TransferController {
	return &TransferController{tracker: t}
}

// Export returns every application in persisted form.
func (c *TransferController) Export(ctx *gin.Context) {
	utils.Success(ctx, c.tracker.Export(ctx.Request.Context()))
}

// Import replaces the collection with the JSON array in the body.
func (c *TransferController) Import(ctx *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxImportBytes+1))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "failed to read body")
		return
	}
	if len(raw) > maxImportBytes {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, 41340, "import document too large")
		return
	}
	res, err := c.tracker.Import(ctx.Request.Context(), raw)
	if err != nil {
		respondTrackerError(ctx, err)
		return
	}
	invalidateReports()
	utils.Success(ctx, res)
}
