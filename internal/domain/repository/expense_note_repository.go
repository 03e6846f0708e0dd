package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/pkg/pagination"
)

// ExpenseNoteRepository defines the interface for expense claims
type ExpenseNoteRepository interface {
	Create(ctx context.Context, note *entity.ExpenseNote) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExpenseNote, error)
	// MarkReviewed writes the review fields only while the stored note is
	// still pending. It reports false when another review got there first.
	MarkReviewed(ctx context.Context, note *entity.ExpenseNote) (bool, error)
	List(ctx context.Context, params *ExpenseNoteFilterParams) ([]entity.ExpenseNote, int64, error)
}

// ExpenseNoteFilterParams contains filtering parameters for note queries
type ExpenseNoteFilterParams struct {
	Pagination *pagination.PaginationParams
	EmployeeID *uuid.UUID
	Status     *enum.ExpenseNoteStatus
}
