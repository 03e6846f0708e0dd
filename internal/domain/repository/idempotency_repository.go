package repository

import (
	"context"
	"time"

	"github.com/sangkips/tavern-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses of sale submissions
type IdempotencyRepository interface {
	// Find returns the stored response for scope, or nil when there is none
	// or it expired before now
	Find(ctx context.Context, scope entity.IdempotencyScope, now time.Time) (*entity.IdempotencyKey, error)
	// Remember stores ikey unless its scope is already taken, in which case
	// it reports false
	Remember(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Purge deletes responses that expired before the given time
	Purge(ctx context.Context, before time.Time) (int64, error)
}
