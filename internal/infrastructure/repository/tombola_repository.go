package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
)

type tombolaRepository struct {
	db *gorm.DB
}

// NewTombolaRepository creates a new tombola repository
func NewTombolaRepository(db *gorm.DB) domainRepo.TombolaRepository {
	return &tombolaRepository{db: db}
}

func (r *tombolaRepository) Create(ctx context.Context, ticket *entity.TombolaTicket) error {
	return mapError(conn(ctx, r.db).Create(ticket).Error)
}

func (r *tombolaRepository) List(ctx context.Context) ([]entity.TombolaTicket, error) {
	var tickets []entity.TombolaTicket
	err := conn(ctx, r.db).
		Preload("User").
		Order("purchased_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *tombolaRepository) ListNonWinning(ctx context.Context) ([]entity.TombolaTicket, error) {
	var tickets []entity.TombolaTicket
	err := conn(ctx, r.db).
		Where("is_winner = ?", false).
		Order("ticket_number ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *tombolaRepository) ListWinners(ctx context.Context) ([]entity.TombolaTicket, error) {
	var tickets []entity.TombolaTicket
	err := conn(ctx, r.db).
		Preload("User").
		Where("is_winner = ?", true).
		Order("prize_tier ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *tombolaRepository) CountWinners(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.TombolaTicket{}).
		Where("is_winner = ?", true).
		Count(&count).Error
	return count, err
}

func (r *tombolaRepository) MarkWinner(ctx context.Context, id uuid.UUID, tier enum.PrizeTier) error {
	return mapError(conn(ctx, r.db).Model(&entity.TombolaTicket{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_winner": true, "prize_tier": tier}).Error)
}

func (r *tombolaRepository) DeleteAll(ctx context.Context) error {
	return conn(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&entity.TombolaTicket{}).Error
}
