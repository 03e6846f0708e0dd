package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents an item on the menu with its stock
type Product struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	Name          string               `gorm:"size:255;not null" json:"name"`
	Slug          string               `gorm:"size:255;unique;not null" json:"slug"`
	Category      enum.ProductCategory `gorm:"size:50;not null;index" json:"category"`
	Quantity      int                  `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	QuantityAlert int                  `gorm:"not null;default:0" json:"quantity_alert"`
	BuyingPrice   int64                `gorm:"default:0" json:"buying_price"`  // Stored in cents
	SellingPrice  int64                `gorm:"default:0" json:"selling_price"` // Stored in cents
	Active        bool                 `gorm:"not null;default:true" json:"active"`
	CreatedBy     uuid.UUID            `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the stock reached the alert threshold
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.QuantityAlert
}

// UnitPrice returns the selling price as a decimal
func (p *Product) UnitPrice() decimal.Decimal {
	return CentsToDecimal(p.SellingPrice)
}

// UnitCost returns the buying price as a decimal
func (p *Product) UnitCost() decimal.Decimal {
	return CentsToDecimal(p.BuyingPrice)
}

// CentsToDecimal converts a cent amount to its decimal value
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// DecimalToCents rounds a decimal amount to the nearest cent
func DecimalToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// ProductJSON is a helper struct for JSON marshaling with decimal prices
type ProductJSON struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Slug          string               `json:"slug"`
	Category      enum.ProductCategory `json:"category"`
	Quantity      int                  `json:"quantity"`
	QuantityAlert int                  `json:"quantity_alert"`
	LowStock      bool                 `json:"low_stock"`
	BuyingPrice   decimal.Decimal      `json:"buying_price"`
	SellingPrice  decimal.Decimal      `json:"selling_price"`
	Active        bool                 `json:"active"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// MarshalJSON converts Product to JSON with decimal prices
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(ProductJSON{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Category:      p.Category,
		Quantity:      p.Quantity,
		QuantityAlert: p.QuantityAlert,
		LowStock:      p.IsLowStock(),
		BuyingPrice:   p.UnitCost(),
		SellingPrice:  p.UnitPrice(),
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	})
}
