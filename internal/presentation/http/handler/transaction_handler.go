package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// TransactionHandler handles sale HTTP requests
type TransactionHandler struct {
	saleService *service.SaleService
	weeks       WeekResolver
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(saleService *service.SaleService, weeks WeekResolver) *TransactionHandler {
	return &TransactionHandler{saleService: saleService, weeks: weeks}
}

// Create records a cart in the current week, split across the given
// employees or credited to the caller.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	wc, ok := resolveWeek(c, h.weeks, nil)
	if !ok {
		return
	}

	items := make([]service.SaleItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			UnitCost:  item.UnitCost,
			Category:  item.Category,
		})
	}

	result, err := h.saleService.RecordSale(c.Request.Context(), wc, &service.RecordSaleInput{
		CreatedBy:   userID,
		Items:       items,
		EmployeeIDs: req.EmployeeIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction recorded successfully", result)
}

// List handles listing transactions of a week
func (h *TransactionHandler) List(c *gin.Context) {
	var filter request.TransactionFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	wc, ok := resolveWeek(c, h.weeks, filter.Week)
	if !ok {
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		WeekID:     &wc.WeekID,
	}
	if filter.EmployeeID != "" {
		employeeID, err := uuid.Parse(filter.EmployeeID)
		if err != nil {
			response.BadRequest(c, "Invalid employee_id")
			return
		}
		params.EmployeeID = &employeeID
	}

	result, err := h.saleService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// Get handles getting a single transaction
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	transaction, err := h.saleService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", transaction)
}

// Delete removes a transaction; stock is left as is
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.saleService.DeleteTransaction(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction deleted successfully", nil)
}
