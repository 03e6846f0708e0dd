package repository

import (
	"context"

	"github.com/sangkips/tavern-api/internal/domain/entity"
)

// WeekLedgerRepository defines the interface for per-week balances
type WeekLedgerRepository interface {
	GetByWeek(ctx context.Context, weekID int) (*entity.WeekLedger, error)
	// Upsert inserts the ledger or overwrites the row with the same week id
	Upsert(ctx context.Context, ledger *entity.WeekLedger) error
	List(ctx context.Context) ([]entity.WeekLedger, error)
}
