package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is money going out during a week
type Expense struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	WeekID      int                `gorm:"not null;index" json:"week_id"`
	Amount      decimal.Decimal    `gorm:"type:numeric(14,4);not null" json:"amount"`
	Category    string             `gorm:"size:100;not null;index" json:"category"`
	Description string             `gorm:"type:text" json:"description"`
	Source      enum.ExpenseSource `gorm:"size:20;not null;default:'manual'" json:"source"`
	EmployeeID  *uuid.UUID         `gorm:"type:uuid;index" json:"employee_id,omitempty"`
	CreatedBy   uuid.UUID          `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
