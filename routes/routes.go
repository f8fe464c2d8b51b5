package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zirdl/bunubon/controllers"
	"github.com/zirdl/bunubon/middleware"
	"github.com/zirdl/bunubon/models"
)

// Controllers bundles the handlers mounted under /api.
type Controllers struct {
	Auth           *controllers.AuthController
	Users          *controllers.UserController
	Municipalities *controllers.MunicipalityController
	Titles         *controllers.TitleController
	Dashboard      *controllers.DashboardController
	Sync           *controllers.SyncController
	LoginLimiter   *middleware.RateLimiter
	Authenticator  middleware.SessionAuthenticator
}

// RegisterRoutes sets up all /api routes. Viewers may read, encoders also
// write titles and municipalities and run syncs, admins manage accounts and
// archive exports.
func RegisterRoutes(r *gin.Engine, c Controllers) {
	api := r.Group("/api")

	login := []gin.HandlerFunc{c.Auth.Login}
	if c.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(c.LoginLimiter)}, login...)
	}
	api.POST("/auth/login", login...)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(c.Authenticator))

	authed.POST("/auth/logout", c.Auth.Logout)
	authed.GET("/auth/me", c.Auth.Me)
	authed.PUT("/auth/password", c.Auth.ChangePassword)

	read := authed.Group("", middleware.RequireRole(models.RoleViewer, models.RoleEncoder, models.RoleAdmin))
	write := authed.Group("", middleware.RequireRole(models.RoleEncoder, models.RoleAdmin))
	admin := authed.Group("", middleware.RequireRole(models.RoleAdmin))

	// Municipalities
	read.GET("/municipalities", c.Municipalities.List)
	read.GET("/municipalities/:id", c.Municipalities.Get)
	write.POST("/municipalities", c.Municipalities.Create)
	write.PUT("/municipalities/:id", c.Municipalities.Update)
	write.DELETE("/municipalities/:id", c.Municipalities.Delete)

	// Titles
	read.GET("/titles", c.Titles.List)
	read.GET("/titles/:id", c.Titles.Get)
	write.POST("/titles", c.Titles.Create)
	write.PUT("/titles/:id", c.Titles.Update)
	write.DELETE("/titles/:id", c.Titles.Delete)

	// Dashboard and exports
	read.GET("/dashboard/summary", c.Dashboard.Summary)
	read.GET("/export/titles", c.Dashboard.ExportTitles)
	admin.POST("/export/titles/archive", c.Dashboard.ArchiveTitles)

	// Spreadsheet sync
	write.POST("/sync/preview", c.Sync.Preview)
	write.POST("/sync/confirm", c.Sync.Confirm)
	write.GET("/sync/jobs/:id", c.Sync.GetJob)
	read.GET("/sync/runs", c.Sync.ListRuns)

	// Accounts
	admin.GET("/users", c.Users.List)
	admin.POST("/users", c.Users.Create)
	admin.PUT("/users/:id", c.Users.Update)
	admin.DELETE("/users/:id", c.Users.Delete)
}
