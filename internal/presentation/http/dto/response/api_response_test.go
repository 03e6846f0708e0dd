package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(handler gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	r := gin.New()
	r.Use(requestid.New())
	r.GET("/", handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestSuccessEnvelope(t *testing.T) {
	w, body := serve(func(c *gin.Context) { OK(c, "done", gin.H{"n": 1}) })

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "done", body["message"])
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, "req-123", meta["request_id"])
	assert.NotEmpty(t, meta["timestamp"])
}

func TestErrorRendersAppError(t *testing.T) {
	w, body := serve(func(c *gin.Context) {
		Error(c, fmt.Errorf("record sale: %w", apperror.NewInsufficientStockError([]string{"Lager"})))
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Insufficient stock for: Lager", body["message"])
	assert.Nil(t, body["errors"])
}

func TestErrorRendersFieldErrors(t *testing.T) {
	w, body := serve(func(c *gin.Context) {
		Error(c, apperror.NewValidationError([]apperror.FieldError{{Field: "items", Message: "cannot be blank"}}))
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "items", errs[0].(map[string]interface{})["field"])
}

func TestInternalErrorDetail(t *testing.T) {
	boom := func(c *gin.Context) { Error(c, errors.New("pq: connection refused")) }

	ExposeInternalErrors(false)
	w, body := serve(boom)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, w.Body.String(), "connection refused")

	ExposeInternalErrors(true)
	defer ExposeInternalErrors(false)
	_, body = serve(boom)
	detail := body["errors"].(map[string]interface{})
	assert.Equal(t, "pq: connection refused", detail["error"])
	assert.NotEmpty(t, detail["stack"])
}
