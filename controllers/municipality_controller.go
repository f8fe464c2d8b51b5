package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/services"
)

// MunicipalityController handles municipality CRUD.
type MunicipalityController struct {
	municipalityService services.MunicipalityService
}

func NewMunicipalityController(svc services.MunicipalityService) *MunicipalityController {
	return &MunicipalityController{municipalityService: svc}
}

// List handles GET /api/municipalities
func (mc *MunicipalityController) List(ctx *gin.Context) {
	list, svcErr := mc.municipalityService.List(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"municipalities": list})
}

// Get handles GET /api/municipalities/:id
func (mc *MunicipalityController) Get(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	m, svcErr := mc.municipalityService.Get(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"municipality": m})
}

// Create handles POST /api/municipalities
func (mc *MunicipalityController) Create(ctx *gin.Context) {
	var req models.MunicipalityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	m, svcErr := mc.municipalityService.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"municipality": m})
}

// Update handles PUT /api/municipalities/:id
func (mc *MunicipalityController) Update(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.MunicipalityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	m, svcErr := mc.municipalityService.Update(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"municipality": m})
}

// Delete handles DELETE /api/municipalities/:id
func (mc *MunicipalityController) Delete(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	if svcErr := mc.municipalityService.Delete(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.Status(http.StatusNoContent)
}
