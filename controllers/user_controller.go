package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/services"
)

// UserController handles account administration.
type UserController struct {
	userService services.UserService
}

func NewUserController(svc services.UserService) *UserController {
	return &UserController{userService: svc}
}

// List handles GET /api/users
func (uc *UserController) List(ctx *gin.Context) {
	users, svcErr := uc.userService.List(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"users": users})
}

// Create handles POST /api/users
func (uc *UserController) Create(ctx *gin.Context) {
	var req models.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	user, svcErr := uc.userService.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"user": user})
}

// Update handles PUT /api/users/:id
func (uc *UserController) Update(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	user, svcErr := uc.userService.Update(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// Delete handles DELETE /api/users/:id
func (uc *UserController) Delete(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if svcErr := uc.userService.Delete(ctx.Request.Context(), actorID, id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.Status(http.StatusNoContent)
}
