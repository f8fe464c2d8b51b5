package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zirdl/bunubon/services"
)

// DashboardController serves aggregates and exports.
type DashboardController struct {
	dashboardService services.DashboardService
	exportService    services.ExportService
}

func NewDashboardController(dashboard services.DashboardService, export services.ExportService) *DashboardController {
	return &DashboardController{dashboardService: dashboard, exportService: export}
}

// Summary handles GET /api/dashboard/summary
func (dc *DashboardController) Summary(ctx *gin.Context) {
	summary, svcErr := dc.dashboardService.Summary(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// ExportTitles handles GET /api/export/titles?format=csv|xlsx
func (dc *DashboardController) ExportTitles(ctx *gin.Context) {
	filter, ok := parseTitleFilter(ctx)
	if !ok {
		return
	}
	file, svcErr := dc.exportService.Export(ctx.Request.Context(), ctx.DefaultQuery("format", services.ExportFormatCSV), filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	ctx.Data(http.StatusOK, file.ContentType, file.Body)
}

// ArchiveTitles handles POST /api/export/titles/archive?format=csv|xlsx
func (dc *DashboardController) ArchiveTitles(ctx *gin.Context) {
	filter, ok := parseTitleFilter(ctx)
	if !ok {
		return
	}
	archive, svcErr := dc.exportService.Archive(ctx.Request.Context(), ctx.DefaultQuery("format", services.ExportFormatXLSX), filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, archive)
}
