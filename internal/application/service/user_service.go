package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"github.com/sangkips/tavern-api/pkg/realtime"
)

// UserService handles employee administration
type UserService struct {
	userRepo repository.UserRepository
	signals  Signals
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, signals Signals) *UserService {
	return &UserService{
		userRepo: userRepo,
		signals:  signals,
	}
}

// ListUsers lists users with filtering
func (s *UserService) ListUsers(ctx context.Context, params *repository.UserFilterParams) (*pagination.PaginatedResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUserRoleInput represents a role or grade change
type UpdateUserRoleInput struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Role    *enum.Role
	Grade   *enum.Grade
}

// UpdateUserRole changes the role and/or grade of another user
func (s *UserService) UpdateUserRole(ctx context.Context, input *UpdateUserRoleInput) (*entity.User, error) {
	if input.ActorID == input.UserID {
		return nil, apperror.ErrSelfModification
	}

	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Grade != nil {
		user.Grade = *input.Grade
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.signals.broadcast(realtime.UsersUpdated)
	return user, nil
}

// DeactivateUser disables another user's account
func (s *UserService) DeactivateUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.ErrSelfModification
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.Active {
		return nil
	}

	user.Active = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.signals.broadcast(realtime.UsersUpdated)
	return nil
}
