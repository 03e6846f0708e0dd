package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
)

// InvitationRepository defines the interface for signup codes
type InvitationRepository interface {
	Create(ctx context.Context, invitation *entity.Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invitation, error)
	GetByCode(ctx context.Context, code string) (*entity.Invitation, error)
	// MarkUsed consumes the code, returning false if it was already used
	MarkUsed(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Invitation, error)
}
