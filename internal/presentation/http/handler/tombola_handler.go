package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/request"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
)

// TombolaHandler handles raffle HTTP requests
type TombolaHandler struct {
	tombolaService *service.TombolaService
}

// NewTombolaHandler creates a new tombola handler
func NewTombolaHandler(tombolaService *service.TombolaService) *TombolaHandler {
	return &TombolaHandler{tombolaService: tombolaService}
}

// BuyTicket records a ticket sold by the caller
func (h *TombolaHandler) BuyTicket(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req request.BuyTicketRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.tombolaService.BuyTicket(c.Request.Context(), &service.BuyTicketInput{
		UserID:       userID,
		TicketNumber: req.TicketNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Ticket recorded successfully", ticket)
}

// ListTickets lists every ticket sold
func (h *TombolaHandler) ListTickets(c *gin.Context) {
	tickets, err := h.tombolaService.ListTickets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tickets retrieved successfully", tickets)
}

// Draw picks the three winners
func (h *TombolaHandler) Draw(c *gin.Context) {
	result, err := h.tombolaService.Draw(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tombola drawn successfully", result)
}

// Winners returns the drawn winners, if any
func (h *TombolaHandler) Winners(c *gin.Context) {
	result, err := h.tombolaService.Winners(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Winners retrieved successfully", result)
}

// Reset wipes every ticket
func (h *TombolaHandler) Reset(c *gin.Context) {
	if err := h.tombolaService.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tombola reset successfully", nil)
}
