package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/application/service"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/presentation/http/middleware"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/sangkips/tavern-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
	Meta    struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func as(userID uuid.UUID, role enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, role)
		c.Set(middleware.ContextUserName, "Test User")
	}
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(requestid.New())
	r.Use(mw...)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings entity.Settings
}

func (r *memSettingsRepo) Load(ctx context.Context) (entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, nil
}

func (r *memSettingsRepo) Save(ctx context.Context, settings entity.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = settings
	return nil
}

func (r *memSettingsRepo) Seed(ctx context.Context, settings entity.Settings) error {
	return nil
}

type stubCloser struct {
	calls   int
	actorID uuid.UUID
	err     error
}

func (s *stubCloser) Rollover(ctx context.Context, actorID uuid.UUID) (*service.RolloverResult, error) {
	s.calls++
	s.actorID = actorID
	if s.err != nil {
		return nil, s.err
	}
	return &service.RolloverResult{Message: "Week 1 closed, week 2 opened", NewWeekID: 2}, nil
}

func newSettingsHandler() (*SettingsHandler, *memSettingsRepo, *stubCloser) {
	repo := &memSettingsRepo{settings: entity.DefaultSettings(decimal.NewFromInt(5))}
	closer := &stubCloser{}
	return NewSettingsHandler(service.NewSettingsService(repo, service.Signals{}), closer), repo, closer
}

func TestSettingsHandlerGetAndUpdate(t *testing.T) {
	h, repo, _ := newSettingsHandler()
	r := newRouter(as(uuid.New(), enum.RoleAdmin))
	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)

	w := do(r, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Meta.RequestID)

	var got entity.Settings
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 1, got.CurrentWeekID)
	assert.True(t, got.TombolaEnabled)

	w = do(r, http.MethodPut, "/settings", `{"tombolaEnabled": false, "bonusPercentage": 12.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, repo.settings.TombolaEnabled)
	assert.True(t, repo.settings.BonusPercentage.Equal(decimal.RequireFromString("12.5")))
}

func TestSettingsHandlerRejectsInvalidBody(t *testing.T) {
	h, repo, _ := newSettingsHandler()
	r := newRouter(as(uuid.New(), enum.RoleAdmin))
	r.PUT("/settings", h.UpdateSettings)

	w := do(r, http.MethodPut, "/settings", `{"bonusPercentage": 150}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w)
	assert.False(t, env.Success)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "bonusPercentage", env.Errors[0].Field)
	assert.True(t, repo.settings.BonusPercentage.Equal(decimal.NewFromInt(5)))

	w = do(r, http.MethodPut, "/settings", `{"currentWeekId": 0}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env = decode(t, w)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "currentWeekId", env.Errors[0].Field)
	assert.Equal(t, 1, repo.settings.CurrentWeekID)

	w = do(r, http.MethodPut, "/settings", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsHandlerNewWeek(t *testing.T) {
	h, _, closer := newSettingsHandler()
	actor := uuid.New()
	r := newRouter(as(actor, enum.RoleAdmin))
	r.POST("/settings/new-week", h.NewWeek)

	w := do(r, http.MethodPost, "/settings/new-week", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, closer.calls)
	assert.Equal(t, actor, closer.actorID)
	assert.Equal(t, "Week 1 closed, week 2 opened", decode(t, w).Message)

	closer.err = errors.New("connection reset")
	w = do(r, http.MethodPost, "/settings/new-week", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.ErrInternalServer.Message, decode(t, w).Message)
}

func TestHandlersRequireAuthenticatedUser(t *testing.T) {
	h, _, closer := newSettingsHandler()
	r := newRouter()
	r.POST("/settings/new-week", h.NewWeek)

	w := do(r, http.MethodPost, "/settings/new-week", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, closer.calls)
}

func TestParamID(t *testing.T) {
	r := newRouter()
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id.String())
	})

	id := uuid.New()
	w := do(r, http.MethodGet, "/things/"+id.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	w = do(r, http.MethodGet, "/things/42", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPageParamsClamps(t *testing.T) {
	p := pageParams(0, 1000)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)
}

func TestIsAdmin(t *testing.T) {
	r := newRouter(as(uuid.New(), enum.RoleManager))
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": IsAdmin(c), "role": GetUserRole(c)})
	})

	w := do(r, http.MethodGet, "/x", "")
	assert.JSONEq(t, `{"admin": false, "role": "manager"}`, w.Body.String())
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	r := newRouter()
	r.GET("/health", NewHealthHandler(stubPinger{}, func() int { return 3 }).Health)
	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"websocket_clients":3`)

	r = newRouter()
	r.GET("/health", NewHealthHandler(stubPinger{err: errors.New("down")}, nil).Health)
	w = do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWSRejectsMissingOrBadToken(t *testing.T) {
	h := NewWSHandler(realtime.NewHub(nil), utils.NewJWTManager("secret", time.Hour))
	r := newRouter()
	r.GET("/ws", h.Serve)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/ws", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/ws?token=nope", "").Code)
}
