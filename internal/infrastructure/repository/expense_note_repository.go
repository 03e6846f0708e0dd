package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
)

type expenseNoteRepository struct {
	db *gorm.DB
}

// NewExpenseNoteRepository creates a new expense note repository
func NewExpenseNoteRepository(db *gorm.DB) domainRepo.ExpenseNoteRepository {
	return &expenseNoteRepository{db: db}
}

func (r *expenseNoteRepository) Create(ctx context.Context, note *entity.ExpenseNote) error {
	return conn(ctx, r.db).Create(note).Error
}

func (r *expenseNoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExpenseNote, error) {
	var note entity.ExpenseNote
	err := conn(ctx, r.db).
		Preload("Employee").
		First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &note, err
}

// MarkReviewed is a conditional UPDATE ... WHERE status = pending. A
// concurrent reviewer blocks on the row lock and then matches nothing.
func (r *expenseNoteRepository) MarkReviewed(ctx context.Context, note *entity.ExpenseNote) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.ExpenseNote{}).
		Where("id = ? AND status = ?", note.ID, enum.ExpenseNoteStatusPending).
		Updates(map[string]interface{}{
			"status":         note.Status,
			"reviewer_id":    note.ReviewerID,
			"reviewed_at":    note.ReviewedAt,
			"review_comment": note.ReviewComment,
			"expense_id":     note.ExpenseID,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *expenseNoteRepository) List(ctx context.Context, params *domainRepo.ExpenseNoteFilterParams) ([]entity.ExpenseNote, int64, error) {
	var notes []entity.ExpenseNote
	var total int64

	query := conn(ctx, r.db).Model(&entity.ExpenseNote{})
	if params.EmployeeID != nil {
		query = query.Where("employee_id = ?", *params.EmployeeID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Employee").
		Order("created_at DESC").
		Find(&notes).Error

	return notes, total, err
}
