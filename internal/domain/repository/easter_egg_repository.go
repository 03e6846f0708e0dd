package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
)

// LeaderboardEntry is one user's easter egg tally
type LeaderboardEntry struct {
	UserID      uuid.UUID
	FirstName   string
	LastName    string
	EggsFound   int64
	LastFoundAt time.Time
}

// EasterEggRepository defines the interface for easter egg finds
type EasterEggRepository interface {
	// Create records a find, returning ErrDuplicate if the user already has it
	Create(ctx context.Context, find *entity.EasterEggFind) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.EasterEggFind, error)
	// Leaderboard orders users by finds desc, then by earliest last find
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}
