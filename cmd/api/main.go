package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/config"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/infrastructure/database"
	"github.com/sangkips/tavern-api/internal/infrastructure/repository"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
	"github.com/sangkips/tavern-api/internal/presentation/http/handler"
	"github.com/sangkips/tavern-api/internal/presentation/http/middleware"
	"github.com/sangkips/tavern-api/internal/presentation/http/routes"
	"github.com/sangkips/tavern-api/pkg/cache"
	"github.com/sangkips/tavern-api/pkg/email"
	"github.com/sangkips/tavern-api/pkg/logger"
	"github.com/sangkips/tavern-api/pkg/notifier"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/sangkips/tavern-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	if err := logger.Init(os.Getenv("APP_ENV")); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	decimal.MarshalJSONWithoutQuotes = true
	response.ExposeInternalErrors(!cfg.App.IsProduction())

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		zap.L().Fatal("failed to run migrations", zap.Error(err))
	}

	if err := database.SeedDefaultData(db, cfg); err != nil {
		zap.L().Warn("failed to seed default data", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("failed to get database handle", zap.Error(err))
	}

	bonus, err := decimal.NewFromString(cfg.Finance.DefaultBonusPercent)
	if err != nil {
		zap.L().Fatal("invalid default bonus percentage", zap.Error(err))
	}
	salary, err := decimal.NewFromString(cfg.Finance.SalaryAmount)
	if err != nil {
		zap.L().Fatal("invalid salary amount", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	expenseNoteRepo := repository.NewExpenseNoteRepository(db)
	settingsRepo := repository.NewSettingsRepository(db, entity.DefaultSettings(bonus))
	ledgerRepo := repository.NewWeekLedgerRepository(db)
	reportRepo := repository.NewReportRepository(db)
	tombolaRepo := repository.NewTombolaRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	easterEggRepo := repository.NewEasterEggRepository(db)
	marketRepo := repository.NewMarketRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Change signals: websocket hub, outbound webhook and read cache
	hub := realtime.NewHub(cfg.CORS.AllowedOrigins)
	go hub.Run(ctx)

	webhook := notifier.New(notifier.Config{
		URL:       cfg.Webhook.URL,
		Timeout:   cfg.Webhook.Timeout,
		QueueSize: cfg.Webhook.QueueSize,
		Workers:   cfg.Webhook.Workers,
	})
	webhook.Start()

	readCache := cache.New(cfg.Cache.TTL)
	go readCache.Janitor(ctx, time.Minute)

	signals := service.Signals{
		Broadcaster: hub,
		Publisher:   webhook,
		Cache:       readCache,
	}

	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, signals)
	authService := service.NewAuthService(transactor, userRepo, invitationRepo, jwtManager, signals)
	productService := service.NewProductService(productRepo, signals)
	saleService := service.NewSaleService(transactor, productRepo, transactionRepo, userRepo, notificationService, service.SalePolicy{
		BundleCategories:         categories(cfg.Sale.BundleCategories),
		BundleSize:               cfg.Sale.BundleSize,
		BundleFree:               cfg.Sale.BundleFree,
		CorporateDecrementsStock: cfg.Sale.CorporateDecrementsStock,
	}, signals)
	expenseService := service.NewExpenseService(expenseRepo, signals)
	reportService := service.NewReportService(reportRepo, transactionRepo, readCache, cfg.Finance.DeductibleCategories)
	weekService := service.NewWeekService(transactor, settingsRepo, ledgerRepo, userRepo, expenseRepo, reportService, notificationService, service.PayrollPolicy{
		SalariedGrades: grades(cfg.Finance.SalariedGrades),
		SalaryAmount:   salary,
	}, signals)
	settingsService := service.NewSettingsService(settingsRepo, signals)
	userService := service.NewUserService(userRepo, signals)
	invitationService := service.NewInvitationService(invitationRepo, emailService)
	tombolaService := service.NewTombolaService(transactor, tombolaRepo, rand.New(rand.NewSource(time.Now().UnixNano())), signals)
	expenseNoteService := service.NewExpenseNoteService(transactor, expenseNoteRepo, expenseRepo, notificationService, signals)
	easterEggService := service.NewEasterEggService(easterEggRepo, cfg.Finance.EasterEggKeys, signals)
	marketService := service.NewMarketService(marketRepo, signals)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Product:      handler.NewProductHandler(productService),
		Transaction:  handler.NewTransactionHandler(saleService, weekService),
		Expense:      handler.NewExpenseHandler(expenseService, weekService),
		Report:       handler.NewReportHandler(reportService, weekService),
		Settings:     handler.NewSettingsHandler(settingsService, weekService),
		User:         handler.NewUserHandler(userService),
		Invitation:   handler.NewInvitationHandler(invitationService),
		Tombola:      handler.NewTombolaHandler(tombolaService),
		ExpenseNote:  handler.NewExpenseNoteHandler(expenseNoteService, weekService),
		Notification: handler.NewNotificationHandler(notificationService),
		EasterEgg:    handler.NewEasterEggHandler(easterEggService),
		Market:       handler.NewMarketHandler(marketService, weekService),
		Health:       handler.NewHealthHandler(sqlDB, hub.ClientCount),
		WS:           handler.NewWSHandler(hub, jwtManager),
	}

	limiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimit.Requests > 0 {
		limiterCfg.Requests = cfg.RateLimit.Requests
	}
	if cfg.RateLimit.Duration > 0 {
		limiterCfg.Window = time.Duration(cfg.RateLimit.Duration) * time.Second
	}
	limiter := middleware.NewRateLimiter(limiterCfg)
	go limiter.Run(ctx)

	go middleware.PurgeIdempotencyKeys(ctx, idempotencyRepo, time.Hour)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     limiter,
		Features:        settingsService,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("starting server",
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
	webhook.Close()

	if err := sqlDB.Close(); err != nil {
		zap.L().Error("close database", zap.Error(err))
	}
}

func categories(values []string) []enum.ProductCategory {
	out := make([]enum.ProductCategory, 0, len(values))
	for _, v := range values {
		out = append(out, enum.ProductCategory(v))
	}
	return out
}

func grades(values []string) []enum.Grade {
	out := make([]enum.Grade, 0, len(values))
	for _, v := range values {
		out = append(out, enum.Grade(v))
	}
	return out
}
