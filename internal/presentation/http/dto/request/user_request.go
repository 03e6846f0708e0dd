package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/sangkips/tavern-api/internal/domain/enum"
)

// UpdateUserRoleRequest changes a user's role and/or grade
type UpdateUserRoleRequest struct {
	Role  *enum.Role  `json:"role"`
	Grade *enum.Grade `json:"grade"`
}

func (r *UpdateUserRoleRequest) Validate() error {
	if r.Role == nil && r.Grade == nil {
		return validation.Errors{"role": errBlank}
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Role, validation.By(validOption)),
		validation.Field(&r.Grade, validation.By(validOption)),
	)
}

// UserFilterRequest represents user filter parameters
type UserFilterRequest struct {
	Search     string `form:"search"`
	Role       string `form:"role"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CreateInvitationRequest creates an invitation code
type CreateInvitationRequest struct {
	Role          enum.Role  `json:"role" binding:"required"`
	Grade         enum.Grade `json:"grade"`
	Email         *string    `json:"email"`
	ExpiresInDays int        `json:"expires_in_days"`
}

func (r *CreateInvitationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Role, validation.Required, validation.By(validOption)),
		validation.Field(&r.Grade, validation.By(validOption)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.ExpiresInDays, validation.Min(0), validation.Max(90)),
	)
}
