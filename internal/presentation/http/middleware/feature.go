package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// FeatureChecker reports whether a settings toggle is on
type FeatureChecker interface {
	FeatureEnabled(ctx context.Context, feature service.Feature) (bool, error)
}

// RequireFeature rejects requests with 403 while feature is switched off
func RequireFeature(checker FeatureChecker, feature service.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		enabled, err := checker.FeatureEnabled(c.Request.Context(), feature)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !enabled {
			response.Forbidden(c, "This feature is currently disabled")
			c.Abort()
			return
		}
		c.Next()
	}
}
