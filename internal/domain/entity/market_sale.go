package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MarketSale is a sale made at the holiday market stand
type MarketSale struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	WeekID    int             `gorm:"not null;index" json:"week_id"`
	Label     string          `gorm:"size:255;not null" json:"label"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"unit_price"`
	Total     decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"total"`
	SellerID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"seller_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Seller *User `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
}

// BeforeCreate generates a UUID before creating a new market sale
func (m *MarketSale) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MarketSale model
func (MarketSale) TableName() string {
	return "market_sales"
}
