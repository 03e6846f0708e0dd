package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyScope identifies one client retry slot: the same key sent by
// another user, or to another route, is a different slot.
type IdempotencyScope struct {
	UserID   uuid.UUID
	Endpoint string
	Key      string
}

// IdempotencyKey remembers the response given to a submission so that a
// retry with the same key replays it instead of recording a second sale
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_scope,priority:1"`
	Endpoint     string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_scope,priority:2"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_scope,priority:3"`
	RequestHash  string    `gorm:"size:64;not null"`
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// BeforeCreate generates a UUID before storing the key
func (k *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// Scope returns the slot the key occupies
func (k *IdempotencyKey) Scope() IdempotencyScope {
	return IdempotencyScope{UserID: k.UserID, Endpoint: k.Endpoint, Key: k.Key}
}

// ConflictsWith reports whether the key was first used with a different body
func (k *IdempotencyKey) ConflictsWith(requestHash string) bool {
	return k.RequestHash != requestHash
}

// IsExpired reports whether the stored response may no longer be replayed
func (k *IdempotencyKey) IsExpired(now time.Time) bool {
	return !now.Before(k.ExpiresAt)
}
