package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Setting keys
const (
	SettingCurrentWeekID        = "currentWeekId"
	SettingBonusPercentage      = "bonusPercentage"
	SettingWebhookNotifications = "webhookNotifications"
	SettingHolidayMarketEnabled = "holidayMarketEnabled"
	SettingTombolaEnabled       = "tombolaEnabled"
	SettingEasterEggsEnabled    = "easterEggsEnabled"
)

// Setting is a single key to JSON value row
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:jsonb;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}

// Settings is the typed view over the setting rows
type Settings struct {
	CurrentWeekID        int             `json:"currentWeekId"`
	BonusPercentage      decimal.Decimal `json:"bonusPercentage"`
	WebhookNotifications bool            `json:"webhookNotifications"`
	HolidayMarketEnabled bool            `json:"holidayMarketEnabled"`
	TombolaEnabled       bool            `json:"tombolaEnabled"`
	EasterEggsEnabled    bool            `json:"easterEggsEnabled"`
}

// DefaultSettings is what a fresh install starts with
func DefaultSettings(bonus decimal.Decimal) Settings {
	return Settings{
		CurrentWeekID:        1,
		BonusPercentage:      bonus,
		WebhookNotifications: true,
		TombolaEnabled:       true,
		EasterEggsEnabled:    true,
	}
}

// Rows encodes the aggregate into one row per key
func (s Settings) Rows() ([]Setting, error) {
	values := map[string]interface{}{
		SettingCurrentWeekID:        s.CurrentWeekID,
		SettingBonusPercentage:      s.BonusPercentage.String(),
		SettingWebhookNotifications: s.WebhookNotifications,
		SettingHolidayMarketEnabled: s.HolidayMarketEnabled,
		SettingTombolaEnabled:       s.TombolaEnabled,
		SettingEasterEggsEnabled:    s.EasterEggsEnabled,
	}

	rows := make([]Setting, 0, len(values))
	for _, key := range settingKeys {
		raw, err := json.Marshal(values[key])
		if err != nil {
			return nil, fmt.Errorf("encode setting %s: %w", key, err)
		}
		rows = append(rows, Setting{Key: key, Value: string(raw)})
	}
	return rows, nil
}

var settingKeys = []string{
	SettingCurrentWeekID,
	SettingBonusPercentage,
	SettingWebhookNotifications,
	SettingHolidayMarketEnabled,
	SettingTombolaEnabled,
	SettingEasterEggsEnabled,
}

// SettingsFromRows decodes rows over base; unknown keys are ignored and
// missing keys keep the base value.
func SettingsFromRows(base Settings, rows []Setting) (Settings, error) {
	s := base
	for _, row := range rows {
		var err error
		switch row.Key {
		case SettingCurrentWeekID:
			err = json.Unmarshal([]byte(row.Value), &s.CurrentWeekID)
		case SettingBonusPercentage:
			err = decodeDecimal(row.Value, &s.BonusPercentage)
		case SettingWebhookNotifications:
			err = json.Unmarshal([]byte(row.Value), &s.WebhookNotifications)
		case SettingHolidayMarketEnabled:
			err = json.Unmarshal([]byte(row.Value), &s.HolidayMarketEnabled)
		case SettingTombolaEnabled:
			err = json.Unmarshal([]byte(row.Value), &s.TombolaEnabled)
		case SettingEasterEggsEnabled:
			err = json.Unmarshal([]byte(row.Value), &s.EasterEggsEnabled)
		}
		if err != nil {
			return base, fmt.Errorf("decode setting %s: %w", row.Key, err)
		}
	}
	return s, nil
}

// decodeDecimal accepts both "5.5" and 5.5
func decodeDecimal(raw string, dst *decimal.Decimal) error {
	var str string
	if err := json.Unmarshal([]byte(raw), &str); err == nil {
		d, err := decimal.NewFromString(str)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
	var f json.Number
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return err
	}
	d, err := decimal.NewFromString(f.String())
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
