package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/tavern-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) Find(ctx context.Context, scope entity.IdempotencyScope, now time.Time) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := conn(ctx, r.db).
		Where("user_id = ? AND endpoint = ? AND key = ? AND expires_at > ?", scope.UserID, scope.Endpoint, scope.Key, now).
		First(&ikey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

// Remember overwrites a slot only once its stored response has expired;
// when two submissions with the same key race, the first to commit keeps it.
func (r *idempotencyRepository) Remember(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	expired := clause.Where{Exprs: []clause.Expression{
		clause.Expr{SQL: "idempotency_keys.expires_at <= ?", Vars: []interface{}{time.Now()}},
	}}
	result := conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"request_hash", "response_code", "response_body", "created_at", "expires_at"}),
			Where:     expired,
		}).
		Create(ikey)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *idempotencyRepository) Purge(ctx context.Context, before time.Time) (int64, error) {
	result := conn(ctx, r.db).
		Where("expires_at <= ?", before).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}
