package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) CreateBatch(ctx context.Context, transactions []entity.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&transactions).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transaction entity.Transaction
	err := conn(ctx, r.db).
		Preload("Employee").
		First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &transaction, err
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var transactions []entity.Transaction
	var total int64

	query := conn(ctx, r.db).Model(&entity.Transaction{})
	if params.WeekID != nil {
		query = query.Where("week_id = ?", *params.WeekID)
	}
	if params.EmployeeID != nil {
		query = query.Where("employee_id = ?", *params.EmployeeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Employee").
		Order("created_at DESC").
		Find(&transactions).Error

	return transactions, total, err
}

func (r *transactionRepository) ListByWeek(ctx context.Context, weekID int) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	err := conn(ctx, r.db).
		Preload("Employee").
		Where("week_id = ?", weekID).
		Order("created_at ASC").
		Find(&transactions).Error
	return transactions, err
}
