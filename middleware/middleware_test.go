package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zirdl/bunubon/models"
	"github.com/zirdl/bunubon/services"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubAuth struct {
	claims *services.SessionClaims
	tokens []string
}

func (s *stubAuth) Authenticate(ctx context.Context, token string) (*services.SessionClaims, *services.ServiceError) {
	s.tokens = append(s.tokens, token)
	if token != "good" {
		return nil, &services.ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid or expired session"}
	}
	return s.claims, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	auth := &stubAuth{claims: &services.SessionClaims{UserID: uuid.New(), Username: "enc", Role: models.RoleEncoder}}
	r := newRouter(AuthMiddleware(auth), RequireRole(models.RoleAdmin, models.RoleEncoder))

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid or expired session"}`, w.Body.String())
	})
}

func TestRequireRole_Forbidden(t *testing.T) {
	auth := &stubAuth{claims: &services.SessionClaims{UserID: uuid.New(), Role: models.RoleViewer}}
	r := newRouter(AuthMiddleware(auth), RequireRole(models.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRouter(RateLimitMiddleware(PerMinute(1, 2)))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := PerMinute(10, 1)
	rl.GetLimiter("10.0.0.1")

	rl.Cleanup(time.Now())
	assert.Len(t, rl.ips, 1)

	rl.Cleanup(time.Now().Add(10 * time.Minute))
	assert.Empty(t, rl.ips)
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(SecurityHeaders())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	r := newRouter(CORS([]string{"https://registry.example.ph/"}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://registry.example.ph")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://registry.example.ph", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestTimeout_SetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var hasDeadline bool
	r.GET("/x", Timeout(time.Second), func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.True(t, hasDeadline)
}

func TestStatusCodeToRange(t *testing.T) {
	assert.Equal(t, "2xx", statusCodeToRange(204))
	assert.Equal(t, "4xx", statusCodeToRange(404))
	assert.Equal(t, "5xx", statusCodeToRange(503))
	assert.Equal(t, "unknown", statusCodeToRange(100))
}
