package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense operations
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
	signals     Signals
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repository.ExpenseRepository, signals Signals) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		signals:     signals,
	}
}

// CreateExpenseInput represents the create expense input
type CreateExpenseInput struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
}

// CreateExpense records a manual expense in the week of wc
func (s *ExpenseService) CreateExpense(ctx context.Context, wc *WeekContext, input *CreateExpenseInput) (*entity.Expense, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "amount", Message: "must be greater than 0"}})
	}

	expense := &entity.Expense{
		WeekID:      wc.WeekID,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Source:      enum.ExpenseSourceManual,
		CreatedBy:   input.UserID,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	s.changed()
	return expense, nil
}

// ListExpenses lists the expenses of a week, or all weeks when weekID is nil
func (s *ExpenseService) ListExpenses(ctx context.Context, weekID *int, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Expense], error) {
	expenses, total, err := s.expenseRepo.List(ctx, weekID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(expenses, pag), nil
}

// DeleteExpense removes an expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return apperror.NewNotFoundError("Expense")
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed()
	return nil
}

func (s *ExpenseService) changed() {
	s.signals.invalidate(cachePrefixReports)
	s.signals.broadcast(realtime.ExpensesUpdated)
}
