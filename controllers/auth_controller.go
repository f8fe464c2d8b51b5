package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zirdl/bunubon/middleware"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/services"
)

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Secure bool
	Domain string
}

// AuthController handles login, logout and the current account.
type AuthController struct {
	authService services.AuthService
	cookie      CookieConfig
}

// NewAuthController creates a new AuthController.
func NewAuthController(svc services.AuthService, cookie CookieConfig) *AuthController {
	return &AuthController{authService: svc, cookie: cookie}
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	resp, svcErr := ac.authService.Login(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ac.setSessionCookie(ctx, resp.Token, int(time.Until(resp.ExpiresAt).Seconds()))
	ctx.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout
func (ac *AuthController) Logout(ctx *gin.Context) {
	claims, _ := middleware.ClaimsFromContext(ctx)
	if svcErr := ac.authService.Logout(ctx.Request.Context(), claims); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ac.setSessionCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me handles GET /api/auth/me
func (ac *AuthController) Me(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	user, svcErr := ac.authService.Me(ctx.Request.Context(), userID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword handles PUT /api/auth/password
func (ac *AuthController) ChangePassword(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req models.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	if svcErr := ac.authService.ChangePassword(ctx.Request.Context(), userID, &req); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (ac *AuthController) setSessionCookie(ctx *gin.Context, value string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, value, maxAge, "/", ac.cookie.Domain, ac.cookie.Secure, true)
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.GetString(middleware.ContextUserID))
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return uuid.Nil, false
	}
	return id, true
}
