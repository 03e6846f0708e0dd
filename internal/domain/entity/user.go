package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"gorm.io/gorm"
)

// User represents an employee account
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	FirstName string     `gorm:"size:255;not null" json:"first_name"`
	LastName  string     `gorm:"size:255;not null" json:"last_name"`
	Email     string     `gorm:"size:255;unique;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Role      enum.Role  `gorm:"size:20;not null;default:'employee';index" json:"role"`
	Grade     enum.Grade `gorm:"size:20;not null;default:'trainee'" json:"grade"`
	Active    bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole checks if the user has one of the given roles
func (u *User) HasRole(roles ...enum.Role) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}
