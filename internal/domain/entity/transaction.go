package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxLineQuantity caps the units of one product in a single sale, free
// bundle units included
const MaxLineQuantity = 10000

// LineItem is a product snapshot taken at sale time
type LineItem struct {
	ProductID    uuid.UUID            `json:"product_id"`
	Name         string               `json:"name"`
	Category     enum.ProductCategory `json:"category"`
	Quantity     int                  `json:"quantity"`
	FreeQuantity int                  `json:"free_quantity"`
	UnitPrice    decimal.Decimal      `json:"unit_price"`
	UnitCost     decimal.Decimal      `json:"unit_cost"`
}

// Revenue is the line's selling total
func (l LineItem) Revenue() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cost is the line's buying total
func (l LineItem) Cost() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Transaction is one employee's share of a sale
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	WeekID        int             `gorm:"not null;index" json:"week_id"`
	EmployeeID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"employee_id"`
	SaleGroupID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_group_id"`
	Corporate     bool            `gorm:"not null;default:false" json:"corporate"`
	EmployeeCount int             `gorm:"not null;default:1" json:"employee_count"`
	Items         []LineItem      `gorm:"type:jsonb;serializer:json" json:"items"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"total_amount"`
	TotalCost     decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"total_cost"`
	Margin        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"margin"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relationships
	Employee *User `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
