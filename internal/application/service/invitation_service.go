package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/email"
	"github.com/sangkips/tavern-api/pkg/utils"
	"go.uber.org/zap"
)

// DefaultInvitationTTL is how long a code stays valid when no expiry is given
const DefaultInvitationTTL = 7 * 24 * time.Hour

// InvitationMailer sends invitation codes by email
type InvitationMailer interface {
	SendInvitationEmail(toEmail string, data email.InvitationData) error
}

// InvitationService issues signup codes
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	mailer         InvitationMailer
	newCode        func() (string, error)
	now            func() time.Time
}

// NewInvitationService creates a new invitation service
func NewInvitationService(invitationRepo repository.InvitationRepository, mailer InvitationMailer) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		mailer:         mailer,
		newCode:        utils.GenerateInvitationCode,
		now:            time.Now,
	}
}

// CreateInvitationInput represents the create invitation input
type CreateInvitationInput struct {
	CreatedBy uuid.UUID
	Role      enum.Role
	Grade     enum.Grade
	Email     *string
	ExpiresIn time.Duration
}

// CreateInvitation creates a code and, when an email is given, mails it.
// A mail failure is logged and does not fail the request.
func (s *InvitationService) CreateInvitation(ctx context.Context, input *CreateInvitationInput) (*entity.Invitation, error) {
	ttl := input.ExpiresIn
	if ttl <= 0 {
		ttl = DefaultInvitationTTL
	}

	invitation := &entity.Invitation{
		Role:      input.Role,
		Grade:     input.Grade,
		Email:     input.Email,
		CreatedBy: input.CreatedBy,
		ExpiresAt: s.now().Add(ttl),
	}

	// Retry a couple of times on the unlikely code collision
	for attempt := 0; ; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("generate invitation code: %w", err)
		}
		invitation.ID = uuid.Nil
		invitation.Code = code

		err = s.invitationRepo.Create(ctx, invitation)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt >= 2 {
			return nil, err
		}
	}

	if invitation.Email != nil && s.mailer != nil {
		err := s.mailer.SendInvitationEmail(*invitation.Email, email.InvitationData{
			Code:      invitation.Code,
			Role:      invitation.Role.String(),
			ExpiresAt: invitation.ExpiresAt,
		})
		if err != nil {
			zap.L().Warn("failed to send invitation email",
				zap.String("email", *invitation.Email), zap.Error(err))
		}
	}

	return invitation, nil
}

// ListInvitations lists every invitation, newest first
func (s *InvitationService) ListInvitations(ctx context.Context) ([]entity.Invitation, error) {
	invitations, err := s.invitationRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if invitations == nil {
		invitations = []entity.Invitation{}
	}
	return invitations, nil
}

// DeleteInvitation revokes a code
func (s *InvitationService) DeleteInvitation(ctx context.Context, id uuid.UUID) error {
	invitation, err := s.invitationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invitation == nil {
		return apperror.NewNotFoundError("Invitation")
	}
	return s.invitationRepo.Delete(ctx, id)
}
