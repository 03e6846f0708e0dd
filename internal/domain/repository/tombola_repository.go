package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
)

// TombolaRepository defines the interface for raffle tickets
type TombolaRepository interface {
	// Create inserts a ticket, returning ErrDuplicate for a taken number
	Create(ctx context.Context, ticket *entity.TombolaTicket) error
	List(ctx context.Context) ([]entity.TombolaTicket, error)
	ListNonWinning(ctx context.Context) ([]entity.TombolaTicket, error)
	ListWinners(ctx context.Context) ([]entity.TombolaTicket, error)
	CountWinners(ctx context.Context) (int64, error)
	MarkWinner(ctx context.Context, id uuid.UUID, tier enum.PrizeTier) error
	DeleteAll(ctx context.Context) error
}
