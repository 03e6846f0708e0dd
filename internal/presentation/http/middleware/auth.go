package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tavern-api/pkg/utils"
)

// Gin context keys holding the authenticated caller
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextUserName = "user_name"
)

// DefaultAuthHeader carries "Bearer <jwt>" unless configured otherwise
const DefaultAuthHeader = "X-Auth-Token"

// AuthMiddleware authenticates the bearer token found in header. A missing
// header is a 401; a malformed or invalid token is a 400.
func AuthMiddleware(jwtManager *utils.JWTManager, header string) gin.HandlerFunc {
	if header == "" {
		header = DefaultAuthHeader
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader(header)
		if authHeader == "" {
			response.Unauthorized(c, header+" header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.BadRequest(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.BadRequest(c, "Invalid or expired token")
			c.Abort()
			return
		}

		SetClaims(c, claims)
		c.Next()
	}
}

// SetClaims stores the caller identity on the gin context
func SetClaims(c *gin.Context, claims *utils.JWTClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserRole, enum.Role(claims.Role))
	c.Set(ContextUserName, claims.Name)
}

// RequireRole allows the request through only when the caller holds one
// of roles.
func RequireRole(roles ...enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserRole)
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		role, _ := value.(enum.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
