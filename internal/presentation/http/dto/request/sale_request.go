package request

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one cart line. Price, cost and category default to
// the product's own values when omitted.
type SaleItemRequest struct {
	ProductID uuid.UUID             `json:"product_id"`
	Quantity  int                   `json:"quantity"`
	UnitPrice *decimal.Decimal      `json:"unit_price"`
	UnitCost  *decimal.Decimal      `json:"unit_cost"`
	Category  *enum.ProductCategory `json:"category"`
}

func (r SaleItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.By(notNilUUID)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(entity.MaxLineQuantity)),
		validation.Field(&r.UnitPrice, validation.By(nonNegativeDecimal)),
		validation.Field(&r.UnitCost, validation.By(nonNegativeDecimal)),
		validation.Field(&r.Category, validation.By(validOption)),
	)
}

// CreateTransactionRequest is a cart, optionally split across employees
type CreateTransactionRequest struct {
	Items       []SaleItemRequest `json:"items" binding:"required"`
	EmployeeIDs []uuid.UUID       `json:"employee_ids"`
}

func (r *CreateTransactionRequest) Validate() error {
	errs := validation.Errors{}
	if len(r.Items) == 0 {
		errs["items"] = errBlank
	}
	for i, item := range r.Items {
		if err := item.Validate(); err != nil {
			errs["items."+strconv.Itoa(i)] = err
		}
	}
	for i, id := range r.EmployeeIDs {
		if id == uuid.Nil {
			errs["employee_ids."+strconv.Itoa(i)] = errBlank
		}
	}
	return errs.Filter()
}

// TransactionFilterRequest represents transaction filter parameters
type TransactionFilterRequest struct {
	Week       *int   `form:"week"`
	EmployeeID string `form:"employee_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
