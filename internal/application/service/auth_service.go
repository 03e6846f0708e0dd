package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/sangkips/tavern-api/pkg/utils"
)

// AuthService handles authentication-related operations
type AuthService struct {
	transactor     repository.Transactor
	userRepo       repository.UserRepository
	invitationRepo repository.InvitationRepository
	jwtManager     *utils.JWTManager
	signals        Signals
	now            func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	transactor repository.Transactor,
	userRepo repository.UserRepository,
	invitationRepo repository.InvitationRepository,
	jwtManager *utils.JWTManager,
	signals Signals,
) *AuthService {
	return &AuthService{
		transactor:     transactor,
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		jwtManager:     jwtManager,
		signals:        signals,
		now:            time.Now,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
}

// Login authenticates a user and returns a bearer token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, apperror.ErrAccountDisabled
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Role.String(), user.FullName())
	if err != nil {
		return nil, err
	}
	return &LoginOutput{User: user, AccessToken: accessToken}, nil
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Code      string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates an account from an invitation code. The code is consumed
// in the same transaction as the user insert.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*LoginOutput, error) {
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var user *entity.User
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		invitation, err := s.invitationRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(input.Code)))
		if err != nil {
			return err
		}
		if invitation == nil || !invitation.IsUsable(s.now()) {
			return apperror.ErrInvitationInvalid
		}
		if invitation.Email != nil && !strings.EqualFold(*invitation.Email, input.Email) {
			return apperror.NewBadRequestError("This invitation was issued for another email address")
		}

		existing, err := s.userRepo.GetByEmail(ctx, input.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewBadRequestError("Email already registered")
		}

		user = &entity.User{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
			Password:  hashedPassword,
			Role:      invitation.Role,
			Grade:     invitation.Grade,
			Active:    true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.NewBadRequestError("Email already registered")
			}
			return err
		}

		consumed, err := s.invitationRepo.MarkUsed(ctx, invitation.ID, user.ID)
		if err != nil {
			return err
		}
		if !consumed {
			return apperror.ErrInvitationInvalid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.signals.broadcast(realtime.UsersUpdated)
	return s.issue(user)
}

// GetCurrentUser returns the authenticated user
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
