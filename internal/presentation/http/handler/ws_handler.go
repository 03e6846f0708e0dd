package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/sangkips/tavern-api/pkg/utils"
	"go.uber.org/zap"
)

// WSHandler attaches browsers to the refetch hub
type WSHandler struct {
	hub        *realtime.Hub
	jwtManager *utils.JWTManager
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *realtime.Hub, jwtManager *utils.JWTManager) *WSHandler {
	return &WSHandler{hub: hub, jwtManager: jwtManager}
}

// Serve upgrades GET /ws?token=<jwt>; the bearer token travels in the
// query string on this route.
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Unauthorized(c, "token query parameter is required")
		return
	}

	claims, err := h.jwtManager.ValidateAccessToken(token)
	if err != nil {
		response.BadRequest(c, "Invalid or expired token")
		return
	}

	if err := h.hub.ServeWS(c.Writer, c.Request, claims.UserID); err != nil {
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
	}
}
