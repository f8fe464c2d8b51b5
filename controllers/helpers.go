package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/services"
)

func respondError(ctx *gin.Context, svcErr *services.ServiceError) {
	ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}

func bindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
}

// uuidParam parses the named path parameter, answering 400 when malformed.
func uuidParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// parsePaginationParams extracts and validates page/limit query params.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	pageInt, limitInt := 1, 20
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "20")); err == nil && l > 0 {
		if l > services.MaxPageLimit {
			l = services.MaxPageLimit
		}
		limitInt = l
	}
	return pageInt, limitInt
}

// parseTitleFilter reads the list/export query string.
func parseTitleFilter(ctx *gin.Context) (models.TitleFilter, bool) {
	page, limit := parsePaginationParams(ctx)
	filter := models.TitleFilter{
		Status:    ctx.Query("status"),
		TitleType: ctx.Query("title_type"),
		Search:    ctx.Query("q"),
		SortBy:    ctx.DefaultQuery("sort", "serial_number"),
		SortDesc:  strings.EqualFold(ctx.Query("order"), "desc"),
		Page:      page,
		Limit:     limit,
	}
	if raw := ctx.Query("municipality_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid municipality_id"})
			return filter, false
		}
		filter.MunicipalityID = &id
	}
	return filter, true
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
