package database

import (
	"fmt"
	"strings"

	"github.com/sangkips/tavern-api/internal/config"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	zap.L().Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	zap.L().Info("running database migrations")

	err := db.AutoMigrate(
		// People
		&entity.User{},
		&entity.Invitation{},

		// Catalog and sales
		&entity.Product{},
		&entity.Transaction{},
		&entity.Expense{},
		&entity.ExpenseNote{},
		&entity.MarketSale{},

		// Week bookkeeping
		&entity.Setting{},
		&entity.WeekLedger{},

		// Extras
		&entity.TombolaTicket{},
		&entity.EasterEggFind{},
		&entity.Notification{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	zap.L().Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the default settings, the first week ledger and,
// when configured, the admin account. Existing rows are left untouched.
func SeedDefaultData(db *gorm.DB, cfg *config.Config) error {
	bonus, err := decimal.NewFromString(cfg.Finance.DefaultBonusPercent)
	if err != nil {
		return fmt.Errorf("invalid default bonus percentage: %w", err)
	}

	rows, err := entity.DefaultSettings(bonus).Rows()
	if err != nil {
		return err
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	ledger := entity.WeekLedger{WeekID: 1, StartingBalance: decimal.Zero}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ledger).Error; err != nil {
		return fmt.Errorf("failed to seed week ledger: %w", err)
	}

	return seedAdmin(db, cfg.Seed)
}

func seedAdmin(db *gorm.DB, seed config.SeedConfig) error {
	if seed.AdminEmail == "" || seed.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("LOWER(email) = LOWER(?)", seed.AdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		zap.L().Info("admin user already exists", zap.String("email", seed.AdminEmail))
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	firstName, lastName := splitName(seed.AdminName)
	admin := entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     seed.AdminEmail,
		Password:  string(hashedPassword),
		Role:      enum.RoleAdmin,
		Grade:     enum.GradeDirector,
		Active:    true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	zap.L().Info("admin user created", zap.String("email", seed.AdminEmail))
	return nil
}

// splitName splits "Ada Lovelace" into first and last name
func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Admin", ""
	}
	first, last, _ := strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}
