package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the listed origins with credentials. A single "*" allows any
// origin by echoing it back.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		origins := make([]string, 0, len(allowedOrigins))
		for _, o := range allowedOrigins {
			if o = strings.TrimSuffix(strings.TrimSpace(o), "/"); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			origins = []string{"http://localhost:5173"}
		}
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
