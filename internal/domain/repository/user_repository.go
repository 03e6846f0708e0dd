package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/pkg/pagination"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// GetByIDs retrieves multiple users by their IDs in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, params *UserFilterParams) ([]entity.User, int64, error)
	// ListActiveByGrades returns active users whose grade is in grades
	ListActiveByGrades(ctx context.Context, grades []enum.Grade) ([]entity.User, error)
	// ListActiveByRole returns active users holding role
	ListActiveByRole(ctx context.Context, role enum.Role) ([]entity.User, error)
}

// UserFilterParams contains filtering parameters for user queries
type UserFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Role       enum.Role
	ActiveOnly bool
}
