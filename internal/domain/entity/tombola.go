package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"gorm.io/gorm"
)

// TombolaTicket is a raffle ticket sold by an employee
type TombolaTicket struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TicketNumber string         `gorm:"size:50;unique;not null" json:"ticket_number"`
	FirstName    string         `gorm:"size:255;not null" json:"first_name"`
	LastName     string         `gorm:"size:255;not null" json:"last_name"`
	Email        *string        `gorm:"size:255" json:"email,omitempty"`
	Phone        *string        `gorm:"size:50" json:"phone,omitempty"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	PurchasedAt  time.Time      `gorm:"not null" json:"purchased_at"`
	IsWinner     bool           `gorm:"not null;default:false" json:"is_winner"`
	PrizeTier    enum.PrizeTier `gorm:"not null;default:0;index:idx_tombola_winner_tier,unique,where:is_winner = true" json:"prize_tier"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"seller,omitempty"`
}

// BeforeCreate generates a UUID before creating a new ticket
func (t *TombolaTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TombolaTicket model
func (TombolaTicket) TableName() string {
	return "tombola_tickets"
}
