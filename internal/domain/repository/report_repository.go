package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesTotals is the sum of a week's transactions
type SalesTotals struct {
	Revenue          decimal.Decimal
	Cost             decimal.Decimal
	Margin           decimal.Decimal
	TransactionCount int64
}

// ExpenseTotals is the sum of a week's expenses
type ExpenseTotals struct {
	Total      decimal.Decimal
	Deductible decimal.Decimal
}

// EmployeeSalesResult is one employee's share of a week
type EmployeeSalesResult struct {
	EmployeeID       uuid.UUID
	FirstName        string
	LastName         string
	Revenue          decimal.Decimal
	Cost             decimal.Decimal
	Margin           decimal.Decimal
	TransactionCount int64
}

// ReportRepository defines the aggregation queries behind weekly reports
type ReportRepository interface {
	// SalesTotals sums revenue, cost and margin over a week
	SalesTotals(ctx context.Context, weekID int) (SalesTotals, error)
	// ExpenseTotals sums expenses and the part whose category is deductible
	ExpenseTotals(ctx context.Context, weekID int, deductibleCategories []string) (ExpenseTotals, error)
	// SalesByEmployee groups a week's sales per employee, highest revenue first
	SalesByEmployee(ctx context.Context, weekID int) ([]EmployeeSalesResult, error)
}
