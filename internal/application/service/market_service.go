package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/shopspring/decimal"
)

// MarketSummary totals the holiday market stand
type MarketSummary struct {
	WeekID   *int                `json:"week_id,omitempty"`
	Quantity int64               `json:"quantity"`
	Total    decimal.Decimal     `json:"total"`
	Sellers  []MarketSellerTotal `json:"sellers"`
}

// MarketSellerTotal is one seller's share of the stand
type MarketSellerTotal struct {
	SellerID uuid.UUID       `json:"seller_id"`
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// MarketService records holiday market sales
type MarketService struct {
	repo    repository.MarketRepository
	signals Signals
}

// NewMarketService creates a new market service
func NewMarketService(repo repository.MarketRepository, signals Signals) *MarketService {
	return &MarketService{repo: repo, signals: signals}
}

// RecordMarketSaleInput represents a stand sale
type RecordMarketSaleInput struct {
	SellerID  uuid.UUID
	Label     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// RecordSale stores a stand sale in the working week
func (s *MarketService) RecordSale(ctx context.Context, wc *WeekContext, input *RecordMarketSaleInput) (*entity.MarketSale, error) {
	var errs []apperror.FieldError
	if input.Quantity <= 0 {
		errs = append(errs, apperror.FieldError{Field: "quantity", Message: "must be greater than zero"})
	}
	if input.UnitPrice.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "unit_price", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	sale := &entity.MarketSale{
		WeekID:    wc.WeekID,
		Label:     input.Label,
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
		Total:     input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
		SellerID:  input.SellerID,
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}

	s.signals.broadcast(realtime.MarketUpdated)
	return sale, nil
}

// ListSales lists stand sales, optionally for one week
func (s *MarketService) ListSales(ctx context.Context, weekID *int) ([]entity.MarketSale, error) {
	sales, err := s.repo.List(ctx, weekID)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []entity.MarketSale{}
	}
	return sales, nil
}

// Summary returns the stand totals and the split by seller
func (s *MarketService) Summary(ctx context.Context, weekID *int) (*MarketSummary, error) {
	totals, err := s.repo.TotalsBySeller(ctx, weekID)
	if err != nil {
		return nil, err
	}

	summary := &MarketSummary{
		WeekID:  weekID,
		Total:   decimal.Zero,
		Sellers: make([]MarketSellerTotal, 0, len(totals)),
	}
	for _, t := range totals {
		summary.Quantity += t.Quantity
		summary.Total = summary.Total.Add(t.Total)
		summary.Sellers = append(summary.Sellers, MarketSellerTotal{
			SellerID: t.SellerID,
			Name:     displayName(t.FirstName, t.LastName),
			Quantity: t.Quantity,
			Total:    t.Total,
		})
	}
	return summary, nil
}

// DeleteSale removes a stand sale
func (s *MarketService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Market sale")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.signals.broadcast(realtime.MarketUpdated)
	return nil
}
