package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zirdl/bunubon/middleware"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/services"
)

// SyncController handles spreadsheet sync.
type SyncController struct {
	syncService services.SyncService
}

func NewSyncController(svc services.SyncService) *SyncController {
	return &SyncController{syncService: svc}
}

// Preview handles POST /api/sync/preview
func (sc *SyncController) Preview(ctx *gin.Context) {
	var req models.SyncPreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, svcErr := sc.syncService.Preview(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Confirm handles POST /api/sync/confirm. With ?async=true the batch is queued
// and 202 is returned with the job id. Row errors never change the status.
func (sc *SyncController) Confirm(ctx *gin.Context) {
	var req models.SyncConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	actor := ctx.GetString(middleware.ContextUsername)

	if ctx.Query("async") == "true" {
		job, svcErr := sc.syncService.Enqueue(ctx.Request.Context(), actor, &req)
		if svcErr != nil {
			respondError(ctx, svcErr)
			return
		}
		ctx.JSON(http.StatusAccepted, gin.H{"job_id": job.ID, "status": job.Status})
		return
	}

	result, svcErr := sc.syncService.Confirm(ctx.Request.Context(), actor, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetJob handles GET /api/sync/jobs/:id
func (sc *SyncController) GetJob(ctx *gin.Context) {
	job, svcErr := sc.syncService.GetJob(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, job)
}

// ListRuns handles GET /api/sync/runs
func (sc *SyncController) ListRuns(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	runs, total, svcErr := sc.syncService.ListRuns(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"runs": runs,
		"meta": gin.H{"page": page, "limit": limit, "total": total, "pages": totalPages(total, limit)},
	})
}
