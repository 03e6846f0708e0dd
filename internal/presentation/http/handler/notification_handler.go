package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// NotificationHandler serves the admin inbox
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles listing notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var filter request.NotificationFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	result, err := h.notificationService.ListNotifications(c.Request.Context(), filter.Unread, pageParams(filter.Page, filter.PerPage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notifications retrieved successfully", result)
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification marked as read", nil)
}

// MarkAllRead marks the whole inbox as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.notificationService.MarkAllRead(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notifications marked as read", gin.H{"updated": count})
}

// Delete handles deleting a notification
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.DeleteNotification(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification deleted successfully", nil)
}
