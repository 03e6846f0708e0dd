package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"gorm.io/gorm"
)

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) domainRepo.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return conn(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) CreateBatch(ctx context.Context, expenses []entity.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&expenses).Error
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	var expense entity.Expense
	err := conn(ctx, r.db).First(&expense, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &expense, err
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Expense{}, "id = ?", id).Error
}

func (r *expenseRepository) List(ctx context.Context, weekID *int, params *pagination.PaginationParams) ([]entity.Expense, int64, error) {
	var expenses []entity.Expense
	var total int64

	query := conn(ctx, r.db).Model(&entity.Expense{})
	if weekID != nil {
		query = query.Where("week_id = ?", *weekID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&expenses).Error

	return expenses, total, err
}
