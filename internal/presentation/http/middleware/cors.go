package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/config"
)

// CORSMiddleware creates a CORS middleware with the provided configuration.
// The auth header and Idempotency-Key are always allowed.
func CORSMiddleware(cfg *config.CORSConfig, authHeader string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		}
	}

	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}

	if len(corsConfig.AllowHeaders) == 0 {
		corsConfig.AllowHeaders = []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"Origin",
		}
	}
	if authHeader == "" {
		authHeader = DefaultAuthHeader
	}
	corsConfig.AllowHeaders = appendMissing(corsConfig.AllowHeaders, authHeader, IdempotencyKeyHeader)

	return cors.New(corsConfig)
}

func appendMissing(headers []string, required ...string) []string {
	for _, r := range required {
		found := false
		for _, h := range headers {
			if h == r {
				found = true
				break
			}
		}
		if !found {
			headers = append(headers, r)
		}
	}
	return headers
}
