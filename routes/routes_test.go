package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/zirdl/bunubon/controllers"
	"github.com/zirdl/bunubon/middleware"
	"github.com/zirdl/bunubon/routes"
	"github.com/zirdl/bunubon/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// roleAuthenticator treats the bearer token as the role name.
type roleAuthenticator struct{}

func (roleAuthenticator) Authenticate(_ context.Context, token string) (*services.SessionClaims, *services.ServiceError) {
	switch token {
	case "admin", "encoder", "viewer":
		return &services.SessionClaims{UserID: uuid.New(), Username: token, Role: token}, nil
	}
	return nil, &services.ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid or expired session"}
}

// Handlers are built over nil services: every request below is either
// rejected by middleware or fails request validation first.
func setupRouter() *gin.Engine {
	r := gin.New()
	routes.RegisterRoutes(r, routes.Controllers{
		Auth:           controllers.NewAuthController(nil, controllers.CookieConfig{}),
		Users:          controllers.NewUserController(nil),
		Municipalities: controllers.NewMunicipalityController(nil),
		Titles:         controllers.NewTitleController(nil),
		Dashboard:      controllers.NewDashboardController(nil, nil),
		Sync:           controllers.NewSyncController(nil),
		LoginLimiter:   middleware.PerMinute(1, 1),
		Authenticator:  roleAuthenticator{},
	})
	return r
}

func call(r *gin.Engine, method, path, token, body string) int {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRoutes_RequireSession(t *testing.T) {
	r := setupRouter()

	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/titles", "", ""))
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/titles", "forged", ""))
}

func TestRoutes_RoleGates(t *testing.T) {
	r := setupRouter()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"viewer reads titles", http.MethodGet, "/api/titles?municipality_id=bad", "viewer", http.StatusBadRequest},
		{"viewer cannot create titles", http.MethodPost, "/api/titles", "viewer", http.StatusForbidden},
		{"encoder creates titles", http.MethodPost, "/api/titles", "encoder", http.StatusBadRequest},
		{"viewer cannot sync", http.MethodPost, "/api/sync/confirm", "viewer", http.StatusForbidden},
		{"encoder syncs", http.MethodPost, "/api/sync/confirm", "encoder", http.StatusBadRequest},
		{"encoder cannot manage users", http.MethodPost, "/api/users", "encoder", http.StatusForbidden},
		{"admin manages users", http.MethodPost, "/api/users", "admin", http.StatusBadRequest},
		{"encoder cannot archive", http.MethodPost, "/api/export/titles/archive", "encoder", http.StatusForbidden},
		{"viewer cannot delete municipalities", http.MethodDelete, "/api/municipalities/" + uuid.NewString(), "viewer", http.StatusForbidden},
		{"encoder deletes municipalities", http.MethodDelete, "/api/municipalities/agoo", "encoder", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(r, tt.method, tt.path, tt.token, "{}"))
		})
	}
}

func TestRoutes_LoginIsRateLimited(t *testing.T) {
	r := setupRouter()

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/api/auth/login", "", "{}"))
	assert.Equal(t, http.StatusTooManyRequests, call(r, http.MethodPost, "/api/auth/login", "", "{}"))
}
