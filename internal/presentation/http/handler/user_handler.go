package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// UserHandler handles staff account HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles listing users
func (h *UserHandler) List(c *gin.Context) {
	var filter request.UserFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	params := &repository.UserFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		ActiveOnly: filter.ActiveOnly,
	}
	if filter.Role != "" {
		role := enum.Role(filter.Role)
		if !role.IsValid() {
			response.BadRequest(c, "Unknown role")
			return
		}
		params.Role = role
	}

	result, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Users retrieved successfully", result)
}

// Get handles getting a single user
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", user)
}

// UpdateRole changes the role and/or grade of another user
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateUserRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUserRole(c.Request.Context(), &service.UpdateUserRoleInput{
		ActorID: actorID,
		UserID:  id,
		Role:    req.Role,
		Grade:   req.Grade,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User role updated successfully", user)
}

// Deactivate disables another user's account
func (h *UserHandler) Deactivate(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), actorID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User deactivated successfully", nil)
}
