package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// MarketHandler handles holiday market HTTP requests
type MarketHandler struct {
	marketService *service.MarketService
	weeks         WeekResolver
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketService *service.MarketService, weeks WeekResolver) *MarketHandler {
	return &MarketHandler{marketService: marketService, weeks: weeks}
}

// Record stores a stand sale in the current week
func (h *MarketHandler) Record(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.RecordMarketSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	wc, ok := resolveWeek(c, h.weeks, nil)
	if !ok {
		return
	}

	sale, err := h.marketService.RecordSale(c.Request.Context(), wc, &service.RecordMarketSaleInput{
		SellerID:  userID,
		Label:     req.Label,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Market sale recorded successfully", sale)
}

func (h *MarketHandler) week(c *gin.Context) (*int, bool) {
	var query request.WeekQuery
	if !bindQuery(c, &query) {
		return nil, false
	}
	wc, ok := resolveWeek(c, h.weeks, query.Week)
	if !ok {
		return nil, false
	}
	return &wc.WeekID, true
}

// List handles listing the stand sales of a week
func (h *MarketHandler) List(c *gin.Context) {
	weekID, ok := h.week(c)
	if !ok {
		return
	}

	sales, err := h.marketService.ListSales(c.Request.Context(), weekID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Market sales retrieved successfully", sales)
}

// Summary returns the totals of a week, overall and per seller
func (h *MarketHandler) Summary(c *gin.Context) {
	weekID, ok := h.week(c)
	if !ok {
		return
	}

	summary, err := h.marketService.Summary(c.Request.Context(), weekID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Market summary retrieved successfully", summary)
}

// Delete handles deleting a stand sale
func (h *MarketHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.marketService.DeleteSale(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Market sale deleted successfully", nil)
}
