package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WeekLedger holds the opening balance of a week and, once closed, its figures
type WeekLedger struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	WeekID          int             `gorm:"not null;uniqueIndex" json:"week_id"`
	StartingBalance decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"starting_balance"`
	Revenue         decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"revenue"`
	Cost            decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"cost"`
	Expenses        decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"expenses"`
	Tax             decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"tax"`
	NetMargin       decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"net_margin"`
	EndingBalance   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"ending_balance"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new ledger row
func (w *WeekLedger) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the WeekLedger model
func (WeekLedger) TableName() string {
	return "week_ledgers"
}

// IsClosed reports whether rollover already wrote the closing snapshot
func (w *WeekLedger) IsClosed() bool {
	return w.ClosedAt != nil
}
