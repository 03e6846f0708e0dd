package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// EasterEggHandler handles hidden-egg HTTP requests
type EasterEggHandler struct {
	eggService *service.EasterEggService
}

// NewEasterEggHandler creates a new easter egg handler
func NewEasterEggHandler(eggService *service.EasterEggService) *EasterEggHandler {
	return &EasterEggHandler{eggService: eggService}
}

// Find records that the caller found the egg named by :key
func (h *EasterEggHandler) Find(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	find, err := h.eggService.RecordFind(c.Request.Context(), userID, c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Easter egg found", find)
}

// Mine lists the caller's finds
func (h *EasterEggHandler) Mine(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	finds, err := h.eggService.MyFinds(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Easter eggs retrieved successfully", finds)
}

// Leaderboard ranks the hunters
func (h *EasterEggHandler) Leaderboard(c *gin.Context) {
	rows, err := h.eggService.Leaderboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Leaderboard retrieved successfully", rows)
}
