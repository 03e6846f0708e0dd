package repository

import (
	"context"

	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SalesTotals(ctx context.Context, weekID int) (domainRepo.SalesTotals, error) {
	var result domainRepo.SalesTotals

	err := conn(ctx, r.db).Raw(`
		SELECT
			COALESCE(SUM(total_amount), 0) as revenue,
			COALESCE(SUM(total_cost), 0) as cost,
			COALESCE(SUM(margin), 0) as margin,
			COUNT(*) as transaction_count
		FROM transactions
		WHERE week_id = ?
	`, weekID).Scan(&result).Error

	return result, err
}

func (r *reportRepository) ExpenseTotals(ctx context.Context, weekID int, deductibleCategories []string) (domainRepo.ExpenseTotals, error) {
	var result domainRepo.ExpenseTotals

	// Categories arrive lowercased. An empty list renders as IN (NULL) and
	// matches nothing.
	err := conn(ctx, r.db).Raw(`
		SELECT
			COALESCE(SUM(amount), 0) as total,
			COALESCE(SUM(CASE WHEN LOWER(TRIM(category)) IN ? THEN amount ELSE 0 END), 0) as deductible
		FROM expenses
		WHERE week_id = ?
	`, deductibleCategories, weekID).Scan(&result).Error

	return result, err
}

func (r *reportRepository) SalesByEmployee(ctx context.Context, weekID int) ([]domainRepo.EmployeeSalesResult, error) {
	var results []domainRepo.EmployeeSalesResult

	err := conn(ctx, r.db).Raw(`
		SELECT
			t.employee_id as employee_id,
			COALESCE(u.first_name, '') as first_name,
			COALESCE(u.last_name, '') as last_name,
			COALESCE(SUM(t.total_amount), 0) as revenue,
			COALESCE(SUM(t.total_cost), 0) as cost,
			COALESCE(SUM(t.margin), 0) as margin,
			COUNT(t.id) as transaction_count
		FROM transactions t
		LEFT JOIN users u ON u.id = t.employee_id
		WHERE t.week_id = ?
		GROUP BY t.employee_id, u.first_name, u.last_name
		ORDER BY revenue DESC, t.employee_id ASC
	`, weekID).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}
