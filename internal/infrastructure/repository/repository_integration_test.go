package repository

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sangkips/tavern-api/internal/config"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/internal/infrastructure/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testDB *gorm.DB

// TestMain starts a throwaway Postgres container. Without docker, or with
// -short, the integration tests skip themselves.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "docker unavailable, skipping integration tests: %v\n", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=tavern_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start postgres: %v\n", err)
		os.Exit(1)
	}
	_ = resource.Expire(120)

	cfg := config.DatabaseConfig{
		Host:         "localhost",
		Port:         resource.GetPort("5432/tcp"),
		Name:         "tavern_test",
		User:         "postgres",
		Password:     "postgres",
		SSLMode:      "disable",
		Timezone:     "UTC",
		MaxIdleConns: 2,
		MaxOpenConns: 10,
	}

	pool.MaxWait = time.Minute
	if err := pool.Retry(func() error {
		db, err := database.NewPostgresDB(&cfg, false)
		if err != nil {
			return err
		}
		testDB = db
		return nil
	}); err != nil {
		_ = pool.Purge(resource)
		fmt.Fprintf(os.Stderr, "could not connect to postgres: %v\n", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(testDB); err != nil {
		_ = pool.Purge(resource)
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = pool.Purge(resource)
	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("postgres not available")
	}
	return testDB
}

func newProduct(t *testing.T, repo domainRepo.ProductRepository, quantity int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:         "Pale Ale",
		Slug:         "pale-ale-" + uuid.NewString(),
		Category:     enum.ProductCategoryBeer,
		Quantity:     quantity,
		SellingPrice: 600,
		Active:       true,
		CreatedBy:    uuid.New(),
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestAtomicDecrementBatch(t *testing.T) {
	db := requireDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	plenty := newProduct(t, repo, 10)
	scarce := newProduct(t, repo, 1)

	failed, err := repo.AtomicDecrementBatch(ctx, map[uuid.UUID]int{
		plenty.ID: 4,
		scarce.ID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{scarce.ID}, failed)

	got, err := repo.GetByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)

	got, err = repo.GetByID(ctx, scarce.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestTransactorRollsBack(t *testing.T) {
	db := requireDB(t)
	repo := NewProductRepository(db)
	tx := NewTransactor(db)
	ctx := context.Background()

	p := newProduct(t, repo, 5)
	boom := errors.New("boom")

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.AtomicDecrementBatch(ctx, map[uuid.UUID]int{p.ID: 5}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}

func TestSettingsRoundTrip(t *testing.T) {
	db := requireDB(t)
	defaults := entity.DefaultSettings(decimal.NewFromInt(5))
	repo := NewSettingsRepository(db, defaults)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, defaults))

	want := defaults
	want.CurrentWeekID = 3
	want.BonusPercentage = decimal.RequireFromString("12.5")
	want.HolidayMarketEnabled = true
	require.NoError(t, repo.Save(ctx, want))

	// Seeding again must not overwrite saved values
	require.NoError(t, repo.Seed(ctx, defaults))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentWeekID)
	assert.True(t, got.BonusPercentage.Equal(want.BonusPercentage))
	assert.True(t, got.HolidayMarketEnabled)
}

func TestMarkReviewedOnlyOnce(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	notes := NewExpenseNoteRepository(db)
	tx := NewTransactor(db)

	employee := &entity.User{
		FirstName: "Ana",
		LastName:  "Lopes",
		Email:     uuid.NewString() + "@tavern.test",
		Password:  "x",
		Role:      enum.RoleEmployee,
		Grade:     enum.GradeStaff,
		Active:    true,
	}
	require.NoError(t, users.Create(ctx, employee))

	note := &entity.ExpenseNote{EmployeeID: employee.ID, Amount: decimal.NewFromInt(20), Category: "supplies"}
	require.NoError(t, notes.Create(ctx, note))

	const reviewers = 4
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed int
	)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := enum.ExpenseNoteStatusApproved
			if i%2 == 1 {
				status = enum.ExpenseNoteStatusRejected
			}
			reviewer := uuid.New()
			now := time.Now()
			review := *note
			review.Status = status
			review.ReviewerID = &reviewer
			review.ReviewedAt = &now

			err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
				ok, err := notes.MarkReviewed(ctx, &review)
				if err != nil || !ok {
					return err
				}
				mu.Lock()
				claimed++
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, claimed)

	got, err := notes.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPending())
	require.NotNil(t, got.ReviewerID)
}

func TestIdempotencyRemember(t *testing.T) {
	db := requireDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()

	scope := entity.IdempotencyScope{UserID: uuid.New(), Endpoint: "POST /api/v1/transactions", Key: "k-" + uuid.NewString()}
	remember := func(hash string, expiresAt time.Time) bool {
		t.Helper()
		ok, err := repo.Remember(ctx, &entity.IdempotencyKey{
			UserID:       scope.UserID,
			Endpoint:     scope.Endpoint,
			Key:          scope.Key,
			RequestHash:  hash,
			ResponseCode: 201,
			ResponseBody: `{"hash":"` + hash + `"}`,
			ExpiresAt:    expiresAt,
		})
		require.NoError(t, err)
		return ok
	}

	require.True(t, remember("first", time.Now().Add(-time.Minute)))

	got, err := repo.Find(ctx, scope, time.Now())
	require.NoError(t, err)
	assert.Nil(t, got, "expired responses are not replayed")

	// An expired slot is taken over, a live one is kept
	assert.True(t, remember("second", time.Now().Add(time.Hour)))
	assert.False(t, remember("third", time.Now().Add(time.Hour)))

	got, err = repo.Find(ctx, scope, time.Now())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.RequestHash)

	other := scope
	other.Endpoint = "POST /api/v1/market/orders"
	got, err = repo.Find(ctx, other, time.Now())
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := repo.Purge(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}

func TestExpenseTotalsDeductibleIgnoresCase(t *testing.T) {
	db := requireDB(t)
	expenses := NewExpenseRepository(db)
	reports := NewReportRepository(db)
	ctx := context.Background()

	const week = 9001
	require.NoError(t, expenses.CreateBatch(ctx, []entity.Expense{
		{WeekID: week, Amount: decimal.NewFromInt(5), Category: "Rent", Source: enum.ExpenseSourceManual, CreatedBy: uuid.New()},
		{WeekID: week, Amount: decimal.NewFromInt(7), Category: "SUPPLIES ", Source: enum.ExpenseSourceManual, CreatedBy: uuid.New()},
		{WeekID: week, Amount: decimal.NewFromInt(3), Category: "party", Source: enum.ExpenseSourceManual, CreatedBy: uuid.New()},
	}))

	totals, err := reports.ExpenseTotals(ctx, week, []string{"rent", "supplies"})
	require.NoError(t, err)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(15)))
	assert.True(t, totals.Deductible.Equal(decimal.NewFromInt(12)))
}
