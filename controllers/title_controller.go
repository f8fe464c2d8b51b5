package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/services"
)

// TitleController handles title record CRUD.
type TitleController struct {
	titleService services.TitleService
}

func NewTitleController(svc services.TitleService) *TitleController {
	return &TitleController{titleService: svc}
}

// List handles GET /api/titles
func (tc *TitleController) List(ctx *gin.Context) {
	filter, ok := parseTitleFilter(ctx)
	if !ok {
		return
	}
	titles, total, svcErr := tc.titleService.List(ctx.Request.Context(), filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"titles": titles,
		"meta": gin.H{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
			"pages": totalPages(total, filter.Limit),
		},
	})
}

// Get handles GET /api/titles/:id
func (tc *TitleController) Get(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	t, svcErr := tc.titleService.Get(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"title": t})
}

// Create handles POST /api/titles
func (tc *TitleController) Create(ctx *gin.Context) {
	var req models.TitleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	t, svcErr := tc.titleService.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"title": t})
}

// Update handles PUT /api/titles/:id
func (tc *TitleController) Update(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.TitleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	t, svcErr := tc.titleService.Update(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"title": t})
}

// Delete handles DELETE /api/titles/:id
func (tc *TitleController) Delete(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	if svcErr := tc.titleService.Delete(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.Status(http.StatusNoContent)
}
