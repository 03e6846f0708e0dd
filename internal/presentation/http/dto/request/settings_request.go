package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest changes the given settings; omitted fields stay
type UpdateSettingsRequest struct {
	CurrentWeekID        *int             `json:"currentWeekId"`
	BonusPercentage      *decimal.Decimal `json:"bonusPercentage"`
	WebhookNotifications *bool            `json:"webhookNotifications"`
	HolidayMarketEnabled *bool            `json:"holidayMarketEnabled"`
	TombolaEnabled       *bool            `json:"tombolaEnabled"`
	EasterEggsEnabled    *bool            `json:"easterEggsEnabled"`
}

func (r *UpdateSettingsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CurrentWeekID, validation.Min(1)),
		validation.Field(&r.BonusPercentage, validation.By(percentage)),
	)
}

var (
	hundred         = decimal.NewFromInt(100)
	errOutOfPercent = errors.New("must be between 0 and 100")
)

func percentage(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return errOutOfPercent
	}
	return nil
}
