package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SellerTotal is one seller's holiday market tally
type SellerTotal struct {
	SellerID  uuid.UUID
	FirstName string
	LastName  string
	Quantity  int64
	Total     decimal.Decimal
}

// MarketRepository defines the interface for holiday market sales
type MarketRepository interface {
	Create(ctx context.Context, sale *entity.MarketSale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MarketSale, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, weekID *int) ([]entity.MarketSale, error)
	TotalsBySeller(ctx context.Context, weekID *int) ([]SellerTotal, error)
}
