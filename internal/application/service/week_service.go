package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/notifier"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/shopspring/decimal"
)

// WeekContext is the week a request works against, resolved once
type WeekContext struct {
	WeekID          int
	Settings        entity.Settings
	StartingBalance decimal.Decimal
}

// PayrollPolicy is the fixed salary posted at every rollover
type PayrollPolicy struct {
	SalariedGrades []enum.Grade
	SalaryAmount   decimal.Decimal
}

// RolloverResult is returned after a week has been closed
type RolloverResult struct {
	Message   string            `json:"message"`
	NewWeekID int               `json:"newWeekId"`
	Summary   *FinancialSummary `json:"summary"`
}

// WeekService resolves the working week and closes it out
type WeekService struct {
	transactor    repository.Transactor
	settingsRepo  repository.SettingsRepository
	ledgerRepo    repository.WeekLedgerRepository
	userRepo      repository.UserRepository
	expenseRepo   repository.ExpenseRepository
	reports       *ReportService
	notifications *NotificationService
	payroll       PayrollPolicy
	signals       Signals
	now           func() time.Time
}

// NewWeekService creates a new week service
func NewWeekService(
	transactor repository.Transactor,
	settingsRepo repository.SettingsRepository,
	ledgerRepo repository.WeekLedgerRepository,
	userRepo repository.UserRepository,
	expenseRepo repository.ExpenseRepository,
	reports *ReportService,
	notifications *NotificationService,
	payroll PayrollPolicy,
	signals Signals,
) *WeekService {
	return &WeekService{
		transactor:    transactor,
		settingsRepo:  settingsRepo,
		ledgerRepo:    ledgerRepo,
		userRepo:      userRepo,
		expenseRepo:   expenseRepo,
		reports:       reports,
		notifications: notifications,
		payroll:       payroll,
		signals:       signals,
		now:           time.Now,
	}
}

// Resolve loads the settings and the ledger of the requested week. A nil
// week means the current one.
func (s *WeekService) Resolve(ctx context.Context, week *int) (*WeekContext, error) {
	if week != nil && *week < 1 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "week", Message: "must be a positive integer"}})
	}

	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	weekID := settings.CurrentWeekID
	if week != nil {
		weekID = *week
	}
	if weekID < 1 {
		weekID = 1
	}

	return s.contextFor(ctx, settings, weekID)
}

func (s *WeekService) contextFor(ctx context.Context, settings entity.Settings, weekID int) (*WeekContext, error) {
	ledger, err := s.ledgerRepo.GetByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("load week ledger: %w", err)
	}

	starting := decimal.Zero
	if ledger != nil {
		starting = ledger.StartingBalance
	}

	return &WeekContext{
		WeekID:          weekID,
		Settings:        settings,
		StartingBalance: starting,
	}, nil
}

// ListLedgers returns every week ledger, most recent first
func (s *WeekService) ListLedgers(ctx context.Context) ([]entity.WeekLedger, error) {
	return s.ledgerRepo.List(ctx)
}

// Rollover closes the current week: it snapshots the summary into the
// ledger, opens the next week with the ending balance, posts salaries into
// it and advances the week counter, all in one transaction.
func (s *WeekService) Rollover(ctx context.Context, actorID uuid.UUID) (*RolloverResult, error) {
	var (
		summary  *FinancialSummary
		settings entity.Settings
		newWeek  int
	)

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		settings, err = s.settingsRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		if settings.CurrentWeekID < 1 {
			settings.CurrentWeekID = 1
		}
		closing := settings.CurrentWeekID
		newWeek = closing + 1

		wc, err := s.contextFor(ctx, settings, closing)
		if err != nil {
			return err
		}
		summary, err = s.reports.computeSummary(ctx, wc)
		if err != nil {
			return err
		}

		closedAt := s.now()
		if err := s.ledgerRepo.Upsert(ctx, &entity.WeekLedger{
			WeekID:          closing,
			StartingBalance: wc.StartingBalance,
			Revenue:         summary.TotalRevenue,
			Cost:            summary.TotalCostOfGoods,
			Expenses:        summary.TotalExpenses,
			Tax:             summary.TaxPayable,
			NetMargin:       summary.NetMargin,
			EndingBalance:   summary.LiveBalance,
			ClosedAt:        &closedAt,
		}); err != nil {
			return fmt.Errorf("close week ledger: %w", err)
		}

		if err := s.ledgerRepo.Upsert(ctx, &entity.WeekLedger{
			WeekID:          newWeek,
			StartingBalance: summary.LiveBalance,
		}); err != nil {
			return fmt.Errorf("open week ledger: %w", err)
		}

		if err := s.postSalaries(ctx, newWeek, actorID); err != nil {
			return err
		}

		settings.CurrentWeekID = newWeek
		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.signals.publish(settings.WebhookNotifications, notifier.NewEvent(notifier.EventWeekClosed, summary))
	if s.notifications != nil {
		s.notifications.Notify(ctx, entity.NotificationWeekClosed,
			fmt.Sprintf("Week %d closed", summary.WeekID),
			fmt.Sprintf("Revenue %s, net margin %s, ending balance %s.",
				summary.TotalRevenue.StringFixed(2), summary.NetMargin.StringFixed(2), summary.LiveBalance.StringFixed(2)),
			nil)
	}
	s.signals.broadcast(realtime.SettingsUpdated, realtime.ExpensesUpdated)
	s.signals.invalidate(cachePrefixReports)

	return &RolloverResult{
		Message:   fmt.Sprintf("Week %d closed, week %d started", summary.WeekID, newWeek),
		NewWeekID: newWeek,
		Summary:   summary,
	}, nil
}

func (s *WeekService) postSalaries(ctx context.Context, weekID int, actorID uuid.UUID) error {
	if len(s.payroll.SalariedGrades) == 0 || !s.payroll.SalaryAmount.IsPositive() {
		return nil
	}

	staff, err := s.userRepo.ListActiveByGrades(ctx, s.payroll.SalariedGrades)
	if err != nil {
		return fmt.Errorf("list salaried staff: %w", err)
	}

	expenses := make([]entity.Expense, 0, len(staff))
	for i := range staff {
		employeeID := staff[i].ID
		expenses = append(expenses, entity.Expense{
			WeekID:      weekID,
			Amount:      s.payroll.SalaryAmount,
			Category:    "salary",
			Description: fmt.Sprintf("Weekly salary - %s", staff[i].FullName()),
			Source:      enum.ExpenseSourceSalary,
			EmployeeID:  &employeeID,
			CreatedBy:   actorID,
		})
	}

	if err := s.expenseRepo.CreateBatch(ctx, expenses); err != nil {
		return fmt.Errorf("post salaries: %w", err)
	}
	return nil
}
