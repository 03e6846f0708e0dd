package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// BuyTicketRequest records a raffle ticket sold to a customer
type BuyTicketRequest struct {
	TicketNumber string  `json:"ticket_number"`
	FirstName    string  `json:"first_name" binding:"required"`
	LastName     string  `json:"last_name" binding:"required"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
}

func (r *BuyTicketRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TicketNumber, validation.Length(0, 32)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Phone, validation.Length(0, 32)),
	)
}
