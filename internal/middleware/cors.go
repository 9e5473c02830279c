package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the listed browser origins to call the API. "*" allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "X-Requested-With", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", "X-Run-Id", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) == 0 || anyOrigin(allowedOrigins) {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cors.New(cfg)
	}
	cfg.AllowOrigins = allowedOrigins
	return cors.New(cfg)
}

func anyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
