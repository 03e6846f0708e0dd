package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tavern-api/internal/presentation/http/middleware"
	"github.com/sangkips/tavern-api/pkg/pagination"
)

// WeekResolver turns an optional ?week= into the week a request works on
type WeekResolver interface {
	Resolve(ctx context.Context, week *int) (*service.WeekContext, error)
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRole extracts the caller's role from the Gin context
func GetUserRole(c *gin.Context) enum.Role {
	role, exists := c.Get(middleware.ContextUserRole)
	if !exists {
		return ""
	}
	r, _ := role.(enum.Role)
	return r
}

// IsAdmin checks if the caller has the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == enum.RoleAdmin
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// bindJSON binds the body and runs the request's own validation rules
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return validate(c, req)
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return false
	}
	return validate(c, req)
}

func validate(c *gin.Context, req interface{}) bool {
	v, ok := req.(request.Validatable)
	if !ok {
		return true
	}
	if err := v.Validate(); err != nil {
		response.Error(c, request.ValidationFailure(err))
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

func resolveWeek(c *gin.Context, weeks WeekResolver, week *int) (*service.WeekContext, bool) {
	wc, err := weeks.Resolve(c.Request.Context(), week)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return wc, true
}
