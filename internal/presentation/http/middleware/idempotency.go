package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// DefaultIdempotencyKeyTTL is how long a stored response is replayed
	DefaultIdempotencyKeyTTL = 24 * time.Hour

	maxIdempotencyKeyLength = 255
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	TTL  time.Duration
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a caller resubmits a
// request with the same Idempotency-Key. Only 2xx responses are stored,
// so a rejected sale can be retried with the same key. Reusing a key with
// a different body is a 409.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyKeyTTL
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}
		if len(idempotencyKey) > maxIdempotencyKeyLength {
			response.BadRequest(c, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		userIDValue, exists := c.Get(ContextUserID)
		if !exists {
			c.Next()
			return
		}
		userID, ok := userIDValue.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Unable to read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		scope := entity.IdempotencyScope{
			UserID:   userID,
			Endpoint: c.Request.Method + " " + c.FullPath(),
			Key:      idempotencyKey,
		}

		existing, err := config.Repo.Find(c.Request.Context(), scope, time.Now())
		if err != nil {
			zap.L().Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}

		if existing != nil {
			if existing.ConflictsWith(requestHash) {
				response.ErrorWithCode(c, http.StatusConflict, "Idempotency-Key was already used with a different request")
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			UserID:       scope.UserID,
			Endpoint:     scope.Endpoint,
			Key:          scope.Key,
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(ttl),
		}
		stored, err := config.Repo.Remember(c.Request.Context(), ikey)
		if err != nil {
			zap.L().Warn("store idempotency key", zap.String("key", idempotencyKey), zap.Error(err))
			return
		}
		if !stored {
			// A concurrent submission with the same key committed first
			zap.L().Warn("idempotency key already stored", zap.String("key", idempotencyKey), zap.String("endpoint", scope.Endpoint))
		}
	}
}

// PurgeIdempotencyKeys deletes expired keys every interval until ctx is done
func PurgeIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.Purge(ctx, time.Now())
			if err != nil {
				zap.L().Warn("purge idempotency keys", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Debug("purged idempotency keys", zap.Int64("count", n))
			}
		}
	}
}
