package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invitation is a single-use signup code
type Invitation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Code      string     `gorm:"size:20;unique;not null" json:"code"`
	Role      enum.Role  `gorm:"size:20;not null" json:"role"`
	Grade     enum.Grade `gorm:"size:20;not null" json:"grade"`
	Email     *string    `gorm:"size:255" json:"email,omitempty"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	UsedBy    *uuid.UUID `gorm:"type:uuid" json:"used_by,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new invitation
func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invitation model
func (Invitation) TableName() string {
	return "invitations"
}

// IsUsable reports whether the code can still be redeemed at now
func (i *Invitation) IsUsable(now time.Time) bool {
	return i.UsedAt == nil && now.Before(i.ExpiresAt)
}
