package repository

import (
	"context"
	"errors"

	"github.com/sangkips/tavern-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type weekLedgerRepository struct {
	db *gorm.DB
}

// NewWeekLedgerRepository creates a new week ledger repository
func NewWeekLedgerRepository(db *gorm.DB) domainRepo.WeekLedgerRepository {
	return &weekLedgerRepository{db: db}
}

func (r *weekLedgerRepository) GetByWeek(ctx context.Context, weekID int) (*entity.WeekLedger, error) {
	var ledger entity.WeekLedger
	err := conn(ctx, r.db).First(&ledger, "week_id = ?", weekID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ledger, err
}

func (r *weekLedgerRepository) Upsert(ctx context.Context, ledger *entity.WeekLedger) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "week_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"starting_balance", "revenue", "cost", "expenses", "tax",
			"net_margin", "ending_balance", "closed_at", "updated_at",
		}),
	}).Create(ledger).Error
}

func (r *weekLedgerRepository) List(ctx context.Context) ([]entity.WeekLedger, error) {
	var ledgers []entity.WeekLedger
	err := conn(ctx, r.db).Order("week_id DESC").Find(&ledgers).Error
	return ledgers, err
}
