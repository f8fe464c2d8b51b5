package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zirdl/bunubon/services"
)

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "session"

// Context keys set by AuthMiddleware.
const (
	ContextClaims   = "claims"
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

// SessionAuthenticator validates a raw session token.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*services.SessionClaims, *services.ServiceError)
}

// AuthMiddleware requires a valid session from the session cookie or an
// Authorization: Bearer header.
func AuthMiddleware(auth SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, svcErr := auth.Authenticate(c.Request.Context(), token)
		if svcErr != nil {
			c.AbortWithStatusJSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// RequireRole aborts with 403 unless the session role is one of roles. It must
// run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[c.GetString(ContextRole)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}

// ClaimsFromContext returns the session claims stored by AuthMiddleware.
func ClaimsFromContext(c *gin.Context) (*services.SessionClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.SessionClaims)
	return claims, ok
}
