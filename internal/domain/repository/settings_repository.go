package repository

import (
	"context"

	"github.com/sangkips/tavern-api/internal/domain/entity"
)

// SettingsRepository defines the interface for settings data access
type SettingsRepository interface {
	// Load reads every row and decodes it over the default settings
	Load(ctx context.Context) (entity.Settings, error)
	// Save upserts one row per key of the aggregate
	Save(ctx context.Context, settings entity.Settings) error
	// Seed inserts rows that do not exist yet, leaving existing ones alone
	Seed(ctx context.Context, settings entity.Settings) error
}
