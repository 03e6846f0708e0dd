package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// Pinger reports whether the database answers
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	db      Pinger
	clients func() int
	started time.Time
}

// NewHealthHandler creates a new health handler. clients may be nil.
func NewHealthHandler(db Pinger, clients func() int) *HealthHandler {
	return &HealthHandler{db: db, clients: clients, started: time.Now()}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	database := "up"
	if err := h.db.PingContext(ctx); err != nil {
		status = http.StatusServiceUnavailable
		database = "down"
	}

	data := gin.H{
		"database": database,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
	}
	if h.clients != nil {
		data["websocket_clients"] = h.clients()
	}

	response.Success(c, status, "ok", data)
}
