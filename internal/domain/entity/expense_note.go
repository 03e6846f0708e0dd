package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseNote is an expense claim submitted by an employee
type ExpenseNote struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID    uuid.UUID              `gorm:"type:uuid;not null;index" json:"employee_id"`
	Amount        decimal.Decimal        `gorm:"type:numeric(14,4);not null" json:"amount"`
	Category      string                 `gorm:"size:100;not null" json:"category"`
	Description   string                 `gorm:"type:text" json:"description"`
	Status        enum.ExpenseNoteStatus `gorm:"not null;default:0;index" json:"status"`
	ReviewerID    *uuid.UUID             `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewedAt    *time.Time             `json:"reviewed_at,omitempty"`
	ReviewComment *string                `gorm:"type:text" json:"review_comment,omitempty"`
	ExpenseID     *uuid.UUID             `gorm:"type:uuid" json:"expense_id,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`

	// Relationships
	Employee *User `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// BeforeCreate generates a UUID before creating a new note
func (n *ExpenseNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ExpenseNote model
func (ExpenseNote) TableName() string {
	return "expense_notes"
}

// IsPending reports whether the note still awaits review
func (n *ExpenseNote) IsPending() bool {
	return n.Status == enum.ExpenseNoteStatusPending
}
