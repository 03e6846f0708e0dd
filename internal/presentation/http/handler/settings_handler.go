package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// WeekCloser closes the current week
type WeekCloser interface {
	Rollover(ctx context.Context, actorID uuid.UUID) (*service.RolloverResult, error)
}

// SettingsHandler handles settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
	weeks           WeekCloser
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService, weeks WeekCloser) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, weeks: weeks}
}

// GetSettings returns the settings aggregate
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings changes the given settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		CurrentWeekID:        req.CurrentWeekID,
		BonusPercentage:      req.BonusPercentage,
		WebhookNotifications: req.WebhookNotifications,
		HolidayMarketEnabled: req.HolidayMarketEnabled,
		TombolaEnabled:       req.TombolaEnabled,
		EasterEggsEnabled:    req.EasterEggsEnabled,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}

// NewWeek closes the current week and opens the next one
func (h *SettingsHandler) NewWeek(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.weeks.Rollover(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result.Message, result)
}
