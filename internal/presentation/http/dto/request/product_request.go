package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name          string               `json:"name" binding:"required"`
	Category      enum.ProductCategory `json:"category" binding:"required"`
	Quantity      int                  `json:"quantity"`
	QuantityAlert int                  `json:"quantity_alert"`
	BuyingPrice   decimal.Decimal      `json:"buying_price"`
	SellingPrice  decimal.Decimal      `json:"selling_price"`
}

func (r *CreateProductRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Category, validation.Required, validation.By(validOption)),
		validation.Field(&r.Quantity, validation.Min(0)),
		validation.Field(&r.QuantityAlert, validation.Min(0)),
		validation.Field(&r.BuyingPrice, validation.By(nonNegativeDecimal)),
		validation.Field(&r.SellingPrice, validation.By(nonNegativeDecimal)),
	)
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string               `json:"name"`
	Category      *enum.ProductCategory `json:"category"`
	Quantity      *int                  `json:"quantity"`
	QuantityAlert *int                  `json:"quantity_alert"`
	BuyingPrice   *decimal.Decimal      `json:"buying_price"`
	SellingPrice  *decimal.Decimal      `json:"selling_price"`
	Active        *bool                 `json:"active"`
}

func (r *UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Length(2, 255)),
		validation.Field(&r.Category, validation.By(validOption)),
		validation.Field(&r.Quantity, validation.Min(0)),
		validation.Field(&r.QuantityAlert, validation.Min(0)),
		validation.Field(&r.BuyingPrice, validation.By(nonNegativeDecimal)),
		validation.Field(&r.SellingPrice, validation.By(nonNegativeDecimal)),
	)
}

// RestockRequest sets the absolute stock level of a product
type RestockRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (r *RestockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Quantity, validation.NotNil, validation.Min(0)),
	)
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	All       bool   `form:"all"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
