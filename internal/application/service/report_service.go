package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// FinancialSummary is the weekly profit and loss statement
type FinancialSummary struct {
	WeekID           int             `json:"weekId"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalCostOfGoods decimal.Decimal `json:"totalCostOfGoods"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	TaxDeductible    decimal.Decimal `json:"taxDeductible"`
	GrossMargin      decimal.Decimal `json:"grossMargin"`
	TaxableBase      decimal.Decimal `json:"taxableBase"`
	TaxPayable       decimal.Decimal `json:"taxPayable"`
	NetMargin        decimal.Decimal `json:"netMargin"`
	BonusPercentage  decimal.Decimal `json:"bonusPercentage"`
	TotalBonus       decimal.Decimal `json:"totalBonus"`
	StartingBalance  decimal.Decimal `json:"startingBalance"`
	LiveBalance      decimal.Decimal `json:"liveBalance"`
	TransactionCount int64           `json:"transactionCount"`
}

// EmployeePerformance is one employee's weekly figures
type EmployeePerformance struct {
	EmployeeID       uuid.UUID       `json:"employeeId"`
	Name             string          `json:"name"`
	Revenue          decimal.Decimal `json:"revenue"`
	Cost             decimal.Decimal `json:"cost"`
	Margin           decimal.Decimal `json:"margin"`
	TransactionCount int64           `json:"transactionCount"`
	EstimatedBonus   decimal.Decimal `json:"estimatedBonus"`
}

// ReportService aggregates a week's sales and expenses
type ReportService struct {
	reportRepo           repository.ReportRepository
	transactionRepo      repository.TransactionRepository
	cache                Cache
	deductibleCategories []string
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo repository.ReportRepository,
	transactionRepo repository.TransactionRepository,
	cache Cache,
	deductibleCategories []string,
) *ReportService {
	return &ReportService{
		reportRepo:           reportRepo,
		transactionRepo:      transactionRepo,
		cache:                cache,
		deductibleCategories: normalizeCategories(deductibleCategories),
	}
}

// normalizeCategories lowercases and trims the configured deductible
// categories; expense categories are compared the same way.
func normalizeCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func summaryCacheKey(weekID int) string {
	return fmt.Sprintf("%s%d:summary", cachePrefixReports, weekID)
}

func performanceCacheKey(weekID int) string {
	return fmt.Sprintf("%s%d:employees", cachePrefixReports, weekID)
}

// FinancialSummary returns the summary of the week in wc, cached for the
// configured TTL.
func (s *ReportService) FinancialSummary(ctx context.Context, wc *WeekContext) (*FinancialSummary, error) {
	key := summaryCacheKey(wc.WeekID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			summary := *cached.(*FinancialSummary)
			return &summary, nil
		}
	}

	summary, err := s.computeSummary(ctx, wc)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		stored := *summary
		s.cache.Set(key, &stored)
	}
	return summary, nil
}

// computeSummary always reads through to the store; rollover uses it inside
// its transaction.
func (s *ReportService) computeSummary(ctx context.Context, wc *WeekContext) (*FinancialSummary, error) {
	sales, err := s.reportRepo.SalesTotals(ctx, wc.WeekID)
	if err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}
	expenses, err := s.reportRepo.ExpenseTotals(ctx, wc.WeekID, s.deductibleCategories)
	if err != nil {
		return nil, fmt.Errorf("expense totals: %w", err)
	}

	bonus := wc.Settings.BonusPercentage
	grossMargin := sales.Revenue.Sub(sales.Cost)
	taxableBase := sales.Revenue.Sub(expenses.Deductible)
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}
	taxPayable := ComputeTax(taxableBase).Round(2)
	netMargin := grossMargin.Sub(expenses.Total)

	return &FinancialSummary{
		WeekID:           wc.WeekID,
		TotalRevenue:     sales.Revenue,
		TotalCostOfGoods: sales.Cost,
		TotalExpenses:    expenses.Total,
		TaxDeductible:    expenses.Deductible,
		GrossMargin:      grossMargin,
		TaxableBase:      taxableBase,
		TaxPayable:       taxPayable,
		NetMargin:        netMargin,
		BonusPercentage:  bonus,
		TotalBonus:       percentOf(grossMargin, bonus).Round(2),
		StartingBalance:  wc.StartingBalance,
		LiveBalance:      wc.StartingBalance.Add(netMargin).Sub(taxPayable),
		TransactionCount: sales.TransactionCount,
	}, nil
}

// EmployeePerformance returns per-employee figures, highest revenue first
func (s *ReportService) EmployeePerformance(ctx context.Context, wc *WeekContext) ([]EmployeePerformance, error) {
	key := performanceCacheKey(wc.WeekID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return append([]EmployeePerformance(nil), cached.([]EmployeePerformance)...), nil
		}
	}

	rows, err := s.reportRepo.SalesByEmployee(ctx, wc.WeekID)
	if err != nil {
		return nil, fmt.Errorf("sales by employee: %w", err)
	}

	result := make([]EmployeePerformance, 0, len(rows))
	for _, row := range rows {
		result = append(result, EmployeePerformance{
			EmployeeID:       row.EmployeeID,
			Name:             displayName(row.FirstName, row.LastName),
			Revenue:          row.Revenue,
			Cost:             row.Cost,
			Margin:           row.Margin,
			TransactionCount: row.TransactionCount,
			EstimatedBonus:   percentOf(row.Margin, wc.Settings.BonusPercentage).Round(2),
		})
	}

	if s.cache != nil {
		s.cache.Set(key, append([]EmployeePerformance(nil), result...))
	}
	return result, nil
}

// ExportWeek writes the week as an XLSX workbook with Summary, Employees and
// Transactions sheets.
func (s *ReportService) ExportWeek(ctx context.Context, wc *WeekContext, w io.Writer) error {
	summary, err := s.FinancialSummary(ctx, wc)
	if err != nil {
		return err
	}
	employees, err := s.EmployeePerformance(ctx, wc)
	if err != nil {
		return err
	}
	transactions, err := s.transactionRepo.ListByWeek(ctx, wc.WeekID)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet, employeeSheet, transactionSheet = "Summary", "Employees", "Transactions"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for _, name := range []string{employeeSheet, transactionSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	summaryRows := [][]interface{}{
		{"Week", summary.WeekID},
		{"Total revenue", summary.TotalRevenue.InexactFloat64()},
		{"Cost of goods", summary.TotalCostOfGoods.InexactFloat64()},
		{"Gross margin", summary.GrossMargin.InexactFloat64()},
		{"Total expenses", summary.TotalExpenses.InexactFloat64()},
		{"Tax deductible", summary.TaxDeductible.InexactFloat64()},
		{"Taxable base", summary.TaxableBase.InexactFloat64()},
		{"Tax payable", summary.TaxPayable.InexactFloat64()},
		{"Net margin", summary.NetMargin.InexactFloat64()},
		{"Bonus %", summary.BonusPercentage.InexactFloat64()},
		{"Total bonus", summary.TotalBonus.InexactFloat64()},
		{"Starting balance", summary.StartingBalance.InexactFloat64()},
		{"Live balance", summary.LiveBalance.InexactFloat64()},
	}
	if err := writeRows(f, summarySheet, summaryRows); err != nil {
		return err
	}

	employeeRows := [][]interface{}{{"Employee", "Revenue", "Cost", "Margin", "Transactions", "Estimated bonus"}}
	for _, e := range employees {
		employeeRows = append(employeeRows, []interface{}{
			e.Name,
			e.Revenue.InexactFloat64(),
			e.Cost.InexactFloat64(),
			e.Margin.InexactFloat64(),
			e.TransactionCount,
			e.EstimatedBonus.InexactFloat64(),
		})
	}
	if err := writeRows(f, employeeSheet, employeeRows); err != nil {
		return err
	}

	transactionRows := [][]interface{}{{"Date", "Employee", "Sale group", "Corporate", "Items", "Total", "Cost", "Margin"}}
	for _, t := range transactions {
		employee := t.EmployeeID.String()
		if t.Employee != nil {
			employee = t.Employee.FullName()
		}
		items := 0
		for _, item := range t.Items {
			items += item.Quantity
		}
		transactionRows = append(transactionRows, []interface{}{
			t.CreatedAt.Format(time.RFC3339),
			employee,
			t.SaleGroupID.String(),
			t.Corporate,
			items,
			t.TotalAmount.InexactFloat64(),
			t.TotalCost.InexactFloat64(),
			t.Margin.InexactFloat64(),
		})
	}
	if err := writeRows(f, transactionSheet, transactionRows); err != nil {
		return err
	}

	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func displayName(first, last string) string {
	switch {
	case first == "" && last == "":
		return "Unknown"
	case last == "":
		return first
	case first == "":
		return last
	}
	return first + " " + last
}
