package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Webhook   WebhookConfig
	Sale      SaleConfig
	Finance   FinanceConfig
	Email     EmailConfig
	Seed      SeedConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// IsProduction reports whether the app runs in production mode
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Timezone     string
	MaxIdleConns int
	MaxOpenConns int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// AuthConfig names the header carrying the bearer credential
type AuthConfig struct {
	Header string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type CacheConfig struct {
	TTL time.Duration
}

type WebhookConfig struct {
	URL       string
	Timeout   time.Duration
	QueueSize int
	Workers   int
}

// SaleConfig is the bonus and stock policy applied by the sale splitter
type SaleConfig struct {
	BundleCategories         []string
	BundleSize               int
	BundleFree               int
	CorporateDecrementsStock bool
	IdempotencyTTL           time.Duration
}

type FinanceConfig struct {
	DeductibleCategories []string
	SalariedGrades       []string
	SalaryAmount         string
	DefaultBonusPercent  string
	EasterEggKeys        []string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
}

// SeedConfig describes the bootstrap admin account
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		zap.L().Warn(".env file not found, using environment variables", zap.Error(err))
	}

	viper.SetDefault("APP_NAME", "tavern-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "tavern")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Europe/Paris")
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 50)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("AUTH_HEADER", "X-Auth-Token")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("CACHE_TTL_SECONDS", 60)
	viper.SetDefault("WEBHOOK_URL", "")
	viper.SetDefault("WEBHOOK_TIMEOUT_SECONDS", 5)
	viper.SetDefault("WEBHOOK_QUEUE_SIZE", 100)
	viper.SetDefault("WEBHOOK_WORKERS", 2)
	viper.SetDefault("SALE_BUNDLE_CATEGORIES", "beer")
	viper.SetDefault("SALE_BUNDLE_SIZE", 5)
	viper.SetDefault("SALE_BUNDLE_FREE", 1)
	viper.SetDefault("SALE_CORPORATE_DECREMENTS_STOCK", false)
	viper.SetDefault("SALE_IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("FINANCE_DEDUCTIBLE_CATEGORIES", "supplies,rent,utilities,maintenance,salary,expense_note")
	viper.SetDefault("FINANCE_SALARIED_GRADES", "manager,director")
	viper.SetDefault("FINANCE_SALARY_AMOUNT", "1500")
	viper.SetDefault("FINANCE_DEFAULT_BONUS_PERCENT", "5")
	viper.SetDefault("EASTER_EGG_KEYS", "golden-pint,hidden-menu,konami,night-owl,secret-recipe")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("MAIL_FROM_NAME", "Tavern Back Office")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			SSLMode:      viper.GetString("DB_SSL_MODE"),
			Timezone:     viper.GetString("DB_TIMEZONE"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Auth: AuthConfig{
			Header: viper.GetString("AUTH_HEADER"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetStringSlice("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetStringSlice("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetStringSlice("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Cache: CacheConfig{
			TTL: time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Webhook: WebhookConfig{
			URL:       viper.GetString("WEBHOOK_URL"),
			Timeout:   time.Duration(viper.GetInt("WEBHOOK_TIMEOUT_SECONDS")) * time.Second,
			QueueSize: viper.GetInt("WEBHOOK_QUEUE_SIZE"),
			Workers:   viper.GetInt("WEBHOOK_WORKERS"),
		},
		Sale: SaleConfig{
			BundleCategories:         splitList(viper.GetStringSlice("SALE_BUNDLE_CATEGORIES")),
			BundleSize:               viper.GetInt("SALE_BUNDLE_SIZE"),
			BundleFree:               viper.GetInt("SALE_BUNDLE_FREE"),
			CorporateDecrementsStock: viper.GetBool("SALE_CORPORATE_DECREMENTS_STOCK"),
			IdempotencyTTL:           time.Duration(viper.GetInt("SALE_IDEMPOTENCY_TTL_HOURS")) * time.Hour,
		},
		Finance: FinanceConfig{
			DeductibleCategories: splitList(viper.GetStringSlice("FINANCE_DEDUCTIBLE_CATEGORIES")),
			SalariedGrades:       splitList(viper.GetStringSlice("FINANCE_SALARIED_GRADES")),
			SalaryAmount:         viper.GetString("FINANCE_SALARY_AMOUNT"),
			DefaultBonusPercent:  viper.GetString("FINANCE_DEFAULT_BONUS_PERCENT"),
			EasterEggKeys:        splitList(viper.GetStringSlice("EASTER_EGG_KEYS")),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("MAIL_FROM_NAME"),
			FromEmail:    viper.GetString("MAIL_FROM_ADDRESS"),
			FrontendURL:  viper.GetString("FRONTEND_URL"),
		},
		Seed: SeedConfig{
			AdminEmail:    viper.GetString("ADMIN_EMAIL"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
			AdminName:     viper.GetString("ADMIN_NAME"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// splitList flattens comma separated env values, since viper only splits
// slices on whitespace when they come from the environment.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
