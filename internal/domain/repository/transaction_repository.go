package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/pkg/pagination"
)

// TransactionRepository defines the interface for sale records
type TransactionRepository interface {
	CreateBatch(ctx context.Context, transactions []entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// ListByWeek returns every record of a week, oldest first
	ListByWeek(ctx context.Context, weekID int) ([]entity.Transaction, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	WeekID     *int
	EmployeeID *uuid.UUID
}
