package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	weeks          WeekResolver
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService, weeks WeekResolver) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, weeks: weeks}
}

// Create records an expense in the current week
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	wc, ok := resolveWeek(c, h.weeks, nil)
	if !ok {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), wc, &service.CreateExpenseInput{
		UserID:      userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense created successfully", expense)
}

// List handles listing the expenses of a week
func (h *ExpenseHandler) List(c *gin.Context) {
	var query request.WeekQuery
	if !bindQuery(c, &query) {
		return
	}

	wc, ok := resolveWeek(c, h.weeks, query.Week)
	if !ok {
		return
	}

	result, err := h.expenseService.ListExpenses(c.Request.Context(), &wc.WeekID, pageParams(query.Page, query.PerPage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Expenses retrieved successfully", result)
}

// Delete handles deleting an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expense deleted successfully", nil)
}
