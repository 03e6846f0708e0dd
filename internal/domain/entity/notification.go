package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationLowStock    = "low_stock"
	NotificationExpenseNote = "expense_note"
	NotificationWeekClosed  = "week_closed"
)

// Notification is an entry in the admin inbox
type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Type       string     `gorm:"size:50;not null;index" json:"type"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Message    string     `gorm:"type:text" json:"message"`
	ResourceID *uuid.UUID `gorm:"type:uuid" json:"resource_id,omitempty"`
	ReadAt     *time.Time `gorm:"index" json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new notification
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
