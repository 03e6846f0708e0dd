package service

import (
	"context"

	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/shopspring/decimal"
)

// Feature names a toggle in the settings
type Feature string

const (
	FeatureTombola       Feature = "tombola"
	FeatureEasterEggs    Feature = "easter_eggs"
	FeatureHolidayMarket Feature = "holiday_market"
)

// Enabled reports whether feature is switched on in s
func (f Feature) Enabled(s entity.Settings) bool {
	switch f {
	case FeatureTombola:
		return s.TombolaEnabled
	case FeatureEasterEggs:
		return s.EasterEggsEnabled
	case FeatureHolidayMarket:
		return s.HolidayMarketEnabled
	}
	return false
}

// SettingsService handles the shared application settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	signals      Signals
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, signals Signals) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		signals:      signals,
	}
}

// GetSettings retrieves the settings aggregate
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.Settings, error) {
	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// FeatureEnabled reports whether a toggle is on
func (s *SettingsService) FeatureEnabled(ctx context.Context, feature Feature) (bool, error) {
	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return false, err
	}
	return feature.Enabled(settings), nil
}

// UpdateSettingsInput represents the update settings input; nil fields are
// left unchanged.
type UpdateSettingsInput struct {
	CurrentWeekID        *int
	BonusPercentage      *decimal.Decimal
	WebhookNotifications *bool
	HolidayMarketEnabled *bool
	TombolaEnabled       *bool
	EasterEggsEnabled    *bool
}

// UpdateSettings updates the settings aggregate
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.Settings, error) {
	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	if input.CurrentWeekID != nil {
		if *input.CurrentWeekID < 1 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "currentWeekId", Message: "must be no less than 1"})
		}
		settings.CurrentWeekID = *input.CurrentWeekID
	}
	if input.BonusPercentage != nil {
		if input.BonusPercentage.IsNegative() || input.BonusPercentage.GreaterThan(hundred) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "bonusPercentage", Message: "must be between 0 and 100"})
		}
		settings.BonusPercentage = *input.BonusPercentage
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if input.WebhookNotifications != nil {
		settings.WebhookNotifications = *input.WebhookNotifications
	}
	if input.HolidayMarketEnabled != nil {
		settings.HolidayMarketEnabled = *input.HolidayMarketEnabled
	}
	if input.TombolaEnabled != nil {
		settings.TombolaEnabled = *input.TombolaEnabled
	}
	if input.EasterEggsEnabled != nil {
		settings.EasterEggsEnabled = *input.EasterEggsEnabled
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	s.signals.invalidate(cachePrefixReports)
	s.signals.broadcast(realtime.SettingsUpdated)
	return &settings, nil
}
