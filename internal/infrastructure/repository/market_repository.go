package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
)

type marketRepository struct {
	db *gorm.DB
}

// NewMarketRepository creates a new holiday market repository
func NewMarketRepository(db *gorm.DB) domainRepo.MarketRepository {
	return &marketRepository{db: db}
}

func (r *marketRepository) Create(ctx context.Context, sale *entity.MarketSale) error {
	return conn(ctx, r.db).Create(sale).Error
}

func (r *marketRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.MarketSale, error) {
	var sale entity.MarketSale
	err := conn(ctx, r.db).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *marketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.MarketSale{}, "id = ?", id).Error
}

func (r *marketRepository) List(ctx context.Context, weekID *int) ([]entity.MarketSale, error) {
	var sales []entity.MarketSale
	query := conn(ctx, r.db).Preload("Seller")
	if weekID != nil {
		query = query.Where("week_id = ?", *weekID)
	}
	err := query.Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *marketRepository) TotalsBySeller(ctx context.Context, weekID *int) ([]domainRepo.SellerTotal, error) {
	var totals []domainRepo.SellerTotal

	query := conn(ctx, r.db).Table("market_sales m").
		Select(`m.seller_id as seller_id,
			COALESCE(u.first_name, '') as first_name,
			COALESCE(u.last_name, '') as last_name,
			COALESCE(SUM(m.quantity), 0) as quantity,
			COALESCE(SUM(m.total), 0) as total`).
		Joins("LEFT JOIN users u ON u.id = m.seller_id")
	if weekID != nil {
		query = query.Where("m.week_id = ?", *weekID)
	}

	err := query.Group("m.seller_id, u.first_name, u.last_name").
		Order("total DESC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	return totals, nil
}
