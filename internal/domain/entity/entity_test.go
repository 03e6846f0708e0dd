package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRowsRoundTrip(t *testing.T) {
	in := DefaultSettings(decimal.RequireFromString("7.5"))
	in.CurrentWeekID = 12
	in.HolidayMarketEnabled = true

	rows, err := in.Rows()
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	out, err := SettingsFromRows(Settings{}, rows)
	require.NoError(t, err)
	assert.Equal(t, 12, out.CurrentWeekID)
	assert.True(t, out.BonusPercentage.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, out.HolidayMarketEnabled)
	assert.True(t, out.TombolaEnabled)
}

func TestSettingsFromRowsKeepsBaseForMissingKeys(t *testing.T) {
	base := DefaultSettings(decimal.NewFromInt(5))
	out, err := SettingsFromRows(base, []Setting{
		{Key: SettingBonusPercentage, Value: "10"},
		{Key: "legacyKey", Value: `"ignored"`},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.CurrentWeekID)
	assert.True(t, out.BonusPercentage.Equal(decimal.NewFromInt(10)))
}

func TestSettingsFromRowsRejectsGarbage(t *testing.T) {
	_, err := SettingsFromRows(Settings{}, []Setting{{Key: SettingCurrentWeekID, Value: `"three"`}})
	assert.Error(t, err)
}

func TestCentsConversion(t *testing.T) {
	assert.True(t, CentsToDecimal(1050).Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, int64(1999), DecimalToCents(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(334), DecimalToCents(decimal.RequireFromString("3.335")))
}

func TestInvitationIsUsable(t *testing.T) {
	now := time.Now()
	inv := Invitation{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, inv.IsUsable(now))

	assert.False(t, inv.IsUsable(now.Add(2*time.Hour)))

	used := now
	inv.UsedAt = &used
	assert.False(t, inv.IsUsable(now))
}

func TestLineItemTotals(t *testing.T) {
	line := LineItem{Quantity: 3, UnitPrice: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(4)}
	assert.True(t, line.Revenue().Equal(decimal.NewFromInt(30)))
	assert.True(t, line.Cost().Equal(decimal.NewFromInt(12)))
}
