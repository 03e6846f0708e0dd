package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

// RecordMarketSaleRequest is one holiday market sale
type RecordMarketSaleRequest struct {
	Label     string          `json:"label" binding:"required"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (r *RecordMarketSaleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Label, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&r.UnitPrice, validation.By(nonNegativeDecimal)),
	)
}

// NotificationFilterRequest represents notification filter parameters
type NotificationFilterRequest struct {
	Unread  bool `form:"unread"`
	Page    int  `form:"page"`
	PerPage int  `form:"per_page"`
}
