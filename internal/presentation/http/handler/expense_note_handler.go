package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// ExpenseNoteHandler handles expense claim HTTP requests
type ExpenseNoteHandler struct {
	noteService *service.ExpenseNoteService
	weeks       WeekResolver
}

// NewExpenseNoteHandler creates a new expense note handler
func NewExpenseNoteHandler(noteService *service.ExpenseNoteService, weeks WeekResolver) *ExpenseNoteHandler {
	return &ExpenseNoteHandler{noteService: noteService, weeks: weeks}
}

// Submit files an expense note for the caller
func (h *ExpenseNoteHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.CreateExpenseNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.noteService.SubmitExpenseNote(c.Request.Context(), &service.SubmitExpenseNoteInput{
		EmployeeID:  userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense note submitted successfully", note)
}

// List returns the caller's notes, or every note for an admin
func (h *ExpenseNoteHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var filter request.ExpenseNoteFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	input := &service.ListExpenseNotesInput{
		UserID:     userID,
		IsAdmin:    IsAdmin(c),
		Pagination: pageParams(filter.Page, filter.PerPage),
	}
	if filter.Status != "" {
		status, ok := enum.ParseExpenseNoteStatus(filter.Status)
		if !ok {
			response.BadRequest(c, "Unknown status")
			return
		}
		input.Status = &status
	}

	result, err := h.noteService.ListExpenseNotes(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Expense notes retrieved successfully", result)
}

// Approve accepts a note and books it as an expense of the current week
func (h *ExpenseNoteHandler) Approve(c *gin.Context) {
	reviewerID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	wc, ok := resolveWeek(c, h.weeks, nil)
	if !ok {
		return
	}

	note, err := h.noteService.ApproveExpenseNote(c.Request.Context(), wc, reviewerID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense note approved", note)
}

// Reject declines a note with an optional comment
func (h *ExpenseNoteHandler) Reject(c *gin.Context) {
	reviewerID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.RejectExpenseNoteRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	note, err := h.noteService.RejectExpenseNote(c.Request.Context(), reviewerID, id, req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense note rejected", note)
}
