package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// InvitationHandler handles invitation code HTTP requests
type InvitationHandler struct {
	invitationService *service.InvitationService
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationService *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// Create issues a new invitation code
func (h *InvitationHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.CreateInvitationRequest
	if !bindJSON(c, &req) {
		return
	}

	grade := req.Grade
	if grade == "" {
		grade = enum.GradeTrainee
	}

	invitation, err := h.invitationService.CreateInvitation(c.Request.Context(), &service.CreateInvitationInput{
		CreatedBy: userID,
		Role:      req.Role,
		Grade:     grade,
		Email:     req.Email,
		ExpiresIn: time.Duration(req.ExpiresInDays) * 24 * time.Hour,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invitation created successfully", invitation)
}

// List handles listing invitations
func (h *InvitationHandler) List(c *gin.Context) {
	invitations, err := h.invitationService.ListInvitations(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invitations retrieved successfully", invitations)
}

// Delete revokes an invitation
func (h *InvitationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.invitationService.DeleteInvitation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invitation deleted successfully", nil)
}
