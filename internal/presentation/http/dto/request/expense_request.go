package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest represents a manual expense
type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
}

func (r *CreateExpenseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.By(positiveDecimal)),
		validation.Field(&r.Category, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Description, validation.Length(0, 500)),
	)
}

// WeekQuery selects a week; absent means the current one
type WeekQuery struct {
	Week    *int `form:"week"`
	Page    int  `form:"page"`
	PerPage int  `form:"per_page"`
}

func (q *WeekQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Week, validation.Min(1)),
	)
}

// CreateExpenseNoteRequest is an expense claim submitted by an employee
type CreateExpenseNoteRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
}

func (r *CreateExpenseNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.By(positiveDecimal)),
		validation.Field(&r.Category, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Description, validation.Length(0, 500)),
	)
}

// RejectExpenseNoteRequest carries the reviewer's reason
type RejectExpenseNoteRequest struct {
	Comment string `json:"comment"`
}

func (r *RejectExpenseNoteRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Comment, validation.Length(0, 500)),
	)
}

// ExpenseNoteFilterRequest represents expense note filter parameters
type ExpenseNoteFilterRequest struct {
	Status  string `form:"status"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
