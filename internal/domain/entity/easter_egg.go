package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EasterEggFind records that a user discovered a hidden egg
type EasterEggFind struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_easter_egg_user_key" json:"user_id"`
	EggKey  string    `gorm:"size:100;not null;uniqueIndex:idx_easter_egg_user_key" json:"egg_key"`
	FoundAt time.Time `gorm:"not null" json:"found_at"`
}

// BeforeCreate generates a UUID before creating a new find
func (e *EasterEggFind) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the EasterEggFind model
func (EasterEggFind) TableName() string {
	return "easter_egg_finds"
}
