package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/tavern-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db       *gorm.DB
	defaults entity.Settings
}

// NewSettingsRepository creates a settings repository; rows missing from the
// table read as the given defaults.
func NewSettingsRepository(db *gorm.DB, defaults entity.Settings) domainRepo.SettingsRepository {
	return &settingsRepository{db: db, defaults: defaults}
}

func (r *settingsRepository) Load(ctx context.Context) (entity.Settings, error) {
	var rows []entity.Setting
	if err := conn(ctx, r.db).Find(&rows).Error; err != nil {
		return entity.Settings{}, err
	}
	return entity.SettingsFromRows(r.defaults, rows)
}

func (r *settingsRepository) Save(ctx context.Context, settings entity.Settings) error {
	rows, err := settings.Rows()
	if err != nil {
		return err
	}
	now := time.Now()
	for i := range rows {
		rows[i].UpdatedAt = now
	}

	err = conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (r *settingsRepository) Seed(ctx context.Context, settings entity.Settings) error {
	rows, err := settings.Rows()
	if err != nil {
		return err
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
