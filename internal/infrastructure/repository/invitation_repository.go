package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *gorm.DB) domainRepo.InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *entity.Invitation) error {
	return mapError(conn(ctx, r.db).Create(invitation).Error)
}

func (r *invitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invitation, error) {
	var invitation entity.Invitation
	err := conn(ctx, r.db).First(&invitation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invitation, err
}

func (r *invitationRepository) GetByCode(ctx context.Context, code string) (*entity.Invitation, error) {
	var invitation entity.Invitation
	err := conn(ctx, r.db).First(&invitation, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invitation, err
}

// MarkUsed only touches an unused code, so two concurrent signups cannot
// both redeem it.
func (r *invitationRepository) MarkUsed(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.Invitation{}).
		Where("id = ? AND used_at IS NULL", id).
		Updates(map[string]interface{}{"used_by": userID, "used_at": time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *invitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Invitation{}, "id = ?", id).Error
}

func (r *invitationRepository) List(ctx context.Context) ([]entity.Invitation, error) {
	var invitations []entity.Invitation
	err := conn(ctx, r.db).Order("created_at DESC").Find(&invitations).Error
	return invitations, err
}
