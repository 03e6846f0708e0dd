package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
)

type easterEggRepository struct {
	db *gorm.DB
}

// NewEasterEggRepository creates a new easter egg repository
func NewEasterEggRepository(db *gorm.DB) domainRepo.EasterEggRepository {
	return &easterEggRepository{db: db}
}

func (r *easterEggRepository) Create(ctx context.Context, find *entity.EasterEggFind) error {
	return mapError(conn(ctx, r.db).Create(find).Error)
}

func (r *easterEggRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.EasterEggFind, error) {
	var finds []entity.EasterEggFind
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("found_at ASC").
		Find(&finds).Error
	return finds, err
}

func (r *easterEggRepository) Leaderboard(ctx context.Context, limit int) ([]domainRepo.LeaderboardEntry, error) {
	var entries []domainRepo.LeaderboardEntry

	err := conn(ctx, r.db).Raw(`
		SELECT
			f.user_id as user_id,
			u.first_name as first_name,
			u.last_name as last_name,
			COUNT(*) as eggs_found,
			MAX(f.found_at) as last_found_at
		FROM easter_egg_finds f
		JOIN users u ON u.id = f.user_id
		GROUP BY f.user_id, u.first_name, u.last_name
		ORDER BY eggs_found DESC, last_found_at ASC
		LIMIT ?
	`, limit).Scan(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}
