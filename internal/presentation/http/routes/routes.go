package routes

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/config"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/internal/presentation/http/handler"
	"github.com/sangkips/tavern-api/internal/presentation/http/middleware"
	"github.com/sangkips/tavern-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Transaction  *handler.TransactionHandler
	Expense      *handler.ExpenseHandler
	Report       *handler.ReportHandler
	Settings     *handler.SettingsHandler
	User         *handler.UserHandler
	Invitation   *handler.InvitationHandler
	Tombola      *handler.TombolaHandler
	ExpenseNote  *handler.ExpenseNoteHandler
	Notification *handler.NotificationHandler
	EasterEgg    *handler.EasterEggHandler
	Market       *handler.MarketHandler
	Health       *handler.HealthHandler
	WS           *handler.WSHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Features        middleware.FeatureChecker
}

var (
	adminOnly      = middleware.RequireRole(enum.RoleAdmin)
	adminOrManager = middleware.RequireRole(enum.RoleAdmin, enum.RoleManager)
)

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS, deps.Cfg.Auth.Header))

	router.GET("/health", h.Health.Health)
	router.GET("/ws", h.WS.Serve)

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Cfg.Auth.Header))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", adminOnly, h.Settings.UpdateSettings)
	protected.POST("/settings/new-week", adminOnly, h.Settings.NewWeek)

	registerProductRoutes(protected, h)
	registerSaleRoutes(protected, h, deps)
	registerFinanceRoutes(protected, h)
	registerStaffRoutes(protected, h)
	registerExtraRoutes(protected, h, deps)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/:id", h.Product.Get)
		products.POST("", adminOnly, h.Product.Create)
		products.PUT("/:id", adminOnly, h.Product.Update)
		products.PUT("/:id/stock", adminOrManager, h.Product.Restock)
		products.DELETE("/:id", adminOnly, h.Product.Delete)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		TTL:  deps.Cfg.Sale.IdempotencyTTL,
	})

	transactions := protected.Group("/transactions")
	{
		transactions.POST("", idempotency, h.Transaction.Create)
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.DELETE("/:id", adminOnly, h.Transaction.Delete)
	}
}

func registerFinanceRoutes(protected *gin.RouterGroup, h *Handlers) {
	expenses := protected.Group("/expenses")
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", adminOrManager, h.Expense.Create)
		expenses.DELETE("/:id", adminOnly, h.Expense.Delete)
	}

	reports := protected.Group("/reports", adminOrManager)
	{
		reports.GET("/financial-summary", h.Report.FinancialSummary)
		reports.GET("/employee-performance", h.Report.EmployeePerformance)
		reports.GET("/export", h.Report.Export)
		reports.GET("/ledgers", h.Report.Ledgers)
	}

	notes := protected.Group("/expense-notes")
	{
		notes.POST("", h.ExpenseNote.Submit)
		notes.GET("", h.ExpenseNote.List)
		notes.POST("/:id/approve", adminOnly, h.ExpenseNote.Approve)
		notes.POST("/:id/reject", adminOnly, h.ExpenseNote.Reject)
	}
}

func registerStaffRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users", adminOnly)
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/role", h.User.UpdateRole)
		users.DELETE("/:id", h.User.Deactivate)
	}

	invitations := protected.Group("/invitations", adminOnly)
	{
		invitations.POST("", h.Invitation.Create)
		invitations.GET("", h.Invitation.List)
		invitations.DELETE("/:id", h.Invitation.Delete)
	}

	notifications := protected.Group("/notifications", adminOnly)
	{
		notifications.GET("", h.Notification.List)
		notifications.PUT("/read-all", h.Notification.MarkAllRead)
		notifications.PUT("/:id/read", h.Notification.MarkRead)
		notifications.DELETE("/:id", h.Notification.Delete)
	}
}

func registerExtraRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	tombola := protected.Group("/tombola", middleware.RequireFeature(deps.Features, service.FeatureTombola))
	{
		tombola.POST("/tickets", h.Tombola.BuyTicket)
		tombola.GET("/tickets", h.Tombola.ListTickets)
		tombola.GET("/winners", h.Tombola.Winners)
		tombola.POST("/draw", adminOnly, h.Tombola.Draw)
		tombola.POST("/reset", adminOnly, h.Tombola.Reset)
	}

	eggs := protected.Group("/easter-eggs", middleware.RequireFeature(deps.Features, service.FeatureEasterEggs))
	{
		eggs.GET("/leaderboard", h.EasterEgg.Leaderboard)
		eggs.GET("/mine", h.EasterEgg.Mine)
		eggs.POST("/:key", h.EasterEgg.Find)
	}

	market := protected.Group("/holiday-market", middleware.RequireFeature(deps.Features, service.FeatureHolidayMarket))
	{
		market.POST("/sales", h.Market.Record)
		market.GET("/sales", h.Market.List)
		market.GET("/summary", h.Market.Summary)
		market.DELETE("/sales/:id", adminOnly, h.Market.Delete)
	}
}
