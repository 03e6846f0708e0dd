package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/shopspring/decimal"
)

// ExpenseNoteService handles expense claims and their review
type ExpenseNoteService struct {
	transactor    repository.Transactor
	noteRepo      repository.ExpenseNoteRepository
	expenseRepo   repository.ExpenseRepository
	notifications *NotificationService
	signals       Signals
	now           func() time.Time
}

// NewExpenseNoteService creates a new expense note service
func NewExpenseNoteService(
	transactor repository.Transactor,
	noteRepo repository.ExpenseNoteRepository,
	expenseRepo repository.ExpenseRepository,
	notifications *NotificationService,
	signals Signals,
) *ExpenseNoteService {
	return &ExpenseNoteService{
		transactor:    transactor,
		noteRepo:      noteRepo,
		expenseRepo:   expenseRepo,
		notifications: notifications,
		signals:       signals,
		now:           time.Now,
	}
}

// SubmitExpenseNoteInput represents a new claim
type SubmitExpenseNoteInput struct {
	EmployeeID  uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
}

// SubmitExpenseNote files a pending claim and notifies the admins
func (s *ExpenseNoteService) SubmitExpenseNote(ctx context.Context, input *SubmitExpenseNoteInput) (*entity.ExpenseNote, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "amount", Message: "must be greater than zero"}})
	}

	note := &entity.ExpenseNote{
		EmployeeID:  input.EmployeeID,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Status:      enum.ExpenseNoteStatusPending,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	if s.notifications != nil {
		noteID := note.ID
		s.notifications.Notify(ctx, entity.NotificationExpenseNote,
			"New expense note",
			fmt.Sprintf("%s claimed %s (%s).", input.Category, input.Amount.StringFixed(2), input.Description),
			&noteID)
	}
	s.signals.broadcast(realtime.ExpenseNotesUpdated)
	return note, nil
}

// ListExpenseNotesInput scopes a listing to the caller
type ListExpenseNotesInput struct {
	UserID     uuid.UUID
	IsAdmin    bool
	Status     *enum.ExpenseNoteStatus
	Pagination *pagination.PaginationParams
}

// ListExpenseNotes lists the caller's own notes, or all notes for an admin
func (s *ExpenseNoteService) ListExpenseNotes(ctx context.Context, input *ListExpenseNotesInput) (*pagination.PaginatedResult[entity.ExpenseNote], error) {
	params := &repository.ExpenseNoteFilterParams{
		Pagination: input.Pagination,
		Status:     input.Status,
	}
	if !input.IsAdmin {
		userID := input.UserID
		params.EmployeeID = &userID
	}

	notes, total, err := s.noteRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(notes, pag), nil
}

// ApproveExpenseNote marks the note approved and books it as an expense of
// the current week in the same transaction.
func (s *ExpenseNoteService) ApproveExpenseNote(ctx context.Context, wc *WeekContext, reviewerID, noteID uuid.UUID) (*entity.ExpenseNote, error) {
	var note *entity.ExpenseNote

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		note, err = s.pending(ctx, noteID)
		if err != nil {
			return err
		}

		employeeID := note.EmployeeID
		expense := &entity.Expense{
			WeekID:      wc.WeekID,
			Amount:      note.Amount,
			Category:    note.Category,
			Description: note.Description,
			Source:      enum.ExpenseSourceExpenseNote,
			EmployeeID:  &employeeID,
			CreatedBy:   reviewerID,
		}
		if err := s.expenseRepo.Create(ctx, expense); err != nil {
			return fmt.Errorf("book expense note: %w", err)
		}

		s.review(note, reviewerID, enum.ExpenseNoteStatusApproved, nil)
		note.ExpenseID = &expense.ID
		return s.claim(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	s.signals.invalidate(cachePrefixReports)
	s.signals.broadcast(realtime.ExpenseNotesUpdated, realtime.ExpensesUpdated)
	return note, nil
}

// RejectExpenseNote marks the note rejected with an optional comment
func (s *ExpenseNoteService) RejectExpenseNote(ctx context.Context, reviewerID, noteID uuid.UUID, comment string) (*entity.ExpenseNote, error) {
	note, err := s.pending(ctx, noteID)
	if err != nil {
		return nil, err
	}

	var reason *string
	if comment != "" {
		reason = &comment
	}
	s.review(note, reviewerID, enum.ExpenseNoteStatusRejected, reason)
	if err := s.claim(ctx, note); err != nil {
		return nil, err
	}

	s.signals.broadcast(realtime.ExpenseNotesUpdated)
	return note, nil
}

func (s *ExpenseNoteService) pending(ctx context.Context, noteID uuid.UUID) (*entity.ExpenseNote, error) {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NewNotFoundError("Expense note")
	}
	if !note.IsPending() {
		return nil, apperror.ErrAlreadyReviewed
	}
	return note, nil
}

// claim stores the review unless another reviewer already did
func (s *ExpenseNoteService) claim(ctx context.Context, note *entity.ExpenseNote) error {
	ok, err := s.noteRepo.MarkReviewed(ctx, note)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrAlreadyReviewed
	}
	return nil
}

func (s *ExpenseNoteService) review(note *entity.ExpenseNote, reviewerID uuid.UUID, status enum.ExpenseNoteStatus, comment *string) {
	reviewedAt := s.now()
	note.Status = status
	note.ReviewerID = &reviewerID
	note.ReviewedAt = &reviewedAt
	note.ReviewComment = comment
}
