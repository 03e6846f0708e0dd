package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/notifier"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalePolicy is the bundle bonus and stock rule applied to every sale
type SalePolicy struct {
	BundleCategories         []enum.ProductCategory
	BundleSize               int
	BundleFree               int
	CorporateDecrementsStock bool
}

// BonusUnits returns the free units given away when quantity units of a
// bundled category are sold.
func (p SalePolicy) BonusUnits(category enum.ProductCategory, quantity int) int {
	if p.BundleSize <= 0 || p.BundleFree <= 0 || quantity <= 0 {
		return 0
	}
	for _, c := range p.BundleCategories {
		if c == category {
			return quantity / p.BundleSize * p.BundleFree
		}
	}
	return 0
}

// SaleItemInput is one cart line; nil overrides fall back to the product
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice *decimal.Decimal
	UnitCost  *decimal.Decimal
	Category  *enum.ProductCategory
}

// RecordSaleInput is a cart submitted by CreatedBy
type RecordSaleInput struct {
	CreatedBy   uuid.UUID
	Items       []SaleItemInput
	EmployeeIDs []uuid.UUID
}

// SaleResult is the outcome of a recorded sale
type SaleResult struct {
	SaleGroupID      uuid.UUID            `json:"saleGroupId"`
	Corporate        bool                 `json:"corporate"`
	StockDecremented bool                 `json:"stockDecremented"`
	TotalAmount      decimal.Decimal      `json:"totalAmount"`
	TotalCost        decimal.Decimal      `json:"totalCost"`
	Margin           decimal.Decimal      `json:"margin"`
	Transactions     []entity.Transaction `json:"transactions"`
}

// SaleService records sales and splits them across employees
type SaleService struct {
	transactor      repository.Transactor
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	notifications   *NotificationService
	policy          SalePolicy
	signals         Signals
}

// NewSaleService creates a new sale service
func NewSaleService(
	transactor repository.Transactor,
	productRepo repository.ProductRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
	policy SalePolicy,
	signals Signals,
) *SaleService {
	return &SaleService{
		transactor:      transactor,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		notifications:   notifications,
		policy:          policy,
		signals:         signals,
	}
}

// RecordSale validates the cart, takes stock and writes one transaction per
// target employee, all in one database transaction.
func (s *SaleService) RecordSale(ctx context.Context, wc *WeekContext, input *RecordSaleInput) (*SaleResult, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "items", Message: "cannot be blank"}})
	}

	targets, corporate, err := s.resolveTargets(ctx, input)
	if err != nil {
		return nil, err
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	lines := make([]entity.LineItem, 0, len(input.Items))
	required := make(map[uuid.UUID]int, len(input.Items))
	revenue := decimal.Zero
	cost := decimal.Zero

	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Quantity for %s must be positive", product.Name))
		}
		if item.Quantity > entity.MaxLineQuantity {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Quantity for %s cannot exceed %d", product.Name, entity.MaxLineQuantity))
		}

		line := entity.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Quantity:  item.Quantity,
			UnitPrice: product.UnitPrice(),
			UnitCost:  product.UnitCost(),
		}
		if item.UnitPrice != nil {
			line.UnitPrice = *item.UnitPrice
		}
		if item.UnitCost != nil {
			line.UnitCost = *item.UnitCost
		}
		if item.Category != nil {
			line.Category = *item.Category
		}
		line.FreeQuantity = s.policy.BonusUnits(line.Category, line.Quantity)

		revenue = revenue.Add(line.Revenue())
		cost = cost.Add(line.Cost())
		units := line.Quantity + line.FreeQuantity
		if units > entity.MaxLineQuantity-required[product.ID] {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Too many units of %s in one sale (max %d)", product.Name, entity.MaxLineQuantity))
		}
		required[product.ID] += units
		lines = append(lines, line)
	}

	decrementStock := !corporate || s.policy.CorporateDecrementsStock
	groupID := uuid.New()
	share := decimal.NewFromInt(int64(len(targets)))
	shareRevenue := revenue.Div(share)
	shareCost := cost.Div(share)

	records := make([]entity.Transaction, 0, len(targets))
	for _, employeeID := range targets {
		records = append(records, entity.Transaction{
			WeekID:        wc.WeekID,
			EmployeeID:    employeeID,
			SaleGroupID:   groupID,
			Corporate:     corporate,
			EmployeeCount: len(targets),
			Items:         lines,
			TotalAmount:   shareRevenue,
			TotalCost:     shareCost,
			Margin:        shareRevenue.Sub(shareCost),
			CreatedBy:     input.CreatedBy,
		})
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if decrementStock {
			failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, required)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if len(failedIDs) > 0 {
				names := make([]string, 0, len(failedIDs))
				for _, id := range failedIDs {
					names = append(names, productMap[id].Name)
				}
				return apperror.NewInsufficientStockError(names)
			}
		}
		if err := s.transactionRepo.CreateBatch(ctx, records); err != nil {
			return fmt.Errorf("create transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterSale(ctx, wc, groupID, records, productIDs, decrementStock, revenue)

	return &SaleResult{
		SaleGroupID:      groupID,
		Corporate:        corporate,
		StockDecremented: decrementStock,
		TotalAmount:      revenue,
		TotalCost:        cost,
		Margin:           revenue.Sub(cost),
		Transactions:     records,
	}, nil
}

// resolveTargets returns the employees sharing the sale. Listed employees
// make it a corporate sale; duplicates are collapsed.
func (s *SaleService) resolveTargets(ctx context.Context, input *RecordSaleInput) ([]uuid.UUID, bool, error) {
	if len(input.EmployeeIDs) == 0 {
		return []uuid.UUID{input.CreatedBy}, false, nil
	}

	seen := make(map[uuid.UUID]bool, len(input.EmployeeIDs))
	targets := make([]uuid.UUID, 0, len(input.EmployeeIDs))
	for _, id := range input.EmployeeIDs {
		if !seen[id] {
			seen[id] = true
			targets = append(targets, id)
		}
	}

	users, err := s.userRepo.GetByIDs(ctx, targets)
	if err != nil {
		return nil, false, err
	}
	found := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		found[u.ID] = true
	}
	for _, id := range targets {
		if !found[id] {
			return nil, false, apperror.NewNotFoundError(fmt.Sprintf("Employee %s", id))
		}
	}
	return targets, true, nil
}

func (s *SaleService) afterSale(ctx context.Context, wc *WeekContext, groupID uuid.UUID, records []entity.Transaction, productIDs []uuid.UUID, stockChanged bool, revenue decimal.Decimal) {
	webhooks := wc.Settings.WebhookNotifications

	employeeIDs := make([]uuid.UUID, 0, len(records))
	for _, r := range records {
		employeeIDs = append(employeeIDs, r.EmployeeID)
	}
	s.signals.publish(webhooks, notifier.NewEvent(notifier.EventSaleCreated, map[string]interface{}{
		"saleGroupId": groupID,
		"weekId":      wc.WeekID,
		"employeeIds": employeeIDs,
		"corporate":   len(records) > 0 && records[0].Corporate,
		"totalAmount": revenue,
	}))

	if stockChanged {
		s.signals.invalidate(cachePrefixProducts, cachePrefixReports)
		s.signals.broadcast(realtime.TransactionsUpdated, realtime.ProductsUpdated)
		s.alertLowStock(ctx, productIDs, webhooks)
		return
	}
	s.signals.invalidate(cachePrefixReports)
	s.signals.broadcast(realtime.TransactionsUpdated)
}

func (s *SaleService) alertLowStock(ctx context.Context, productIDs []uuid.UUID, webhooks bool) {
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		zap.L().Warn("failed to reload products for stock alerts", zap.Error(err))
		return
	}
	for i := range products {
		p := &products[i]
		if !p.IsLowStock() {
			continue
		}
		s.signals.publish(webhooks, notifier.NewEvent(notifier.EventStockLow, map[string]interface{}{
			"productId":     p.ID,
			"name":          p.Name,
			"quantity":      p.Quantity,
			"quantityAlert": p.QuantityAlert,
		}))
		if s.notifications != nil {
			s.notifications.Notify(ctx, entity.NotificationLowStock,
				fmt.Sprintf("Low stock: %s", p.Name),
				fmt.Sprintf("%s is down to %d (alert at %d).", p.Name, p.Quantity, p.QuantityAlert),
				&p.ID)
		}
	}
}

// ListTransactions lists sale records with filtering
func (s *SaleService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	transactions, total, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(transactions, pag), nil
}

// GetTransaction retrieves a sale record by ID
func (s *SaleService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return transaction, nil
}

// DeleteTransaction removes a sale record. Stock is not restored.
func (s *SaleService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetTransaction(ctx, id); err != nil {
		return err
	}
	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.signals.invalidate(cachePrefixReports)
	s.signals.broadcast(realtime.TransactionsUpdated)
	return nil
}
