package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/realtime"
)

const defaultLeaderboardSize = 20

// LeaderboardRow is one line of the easter egg leaderboard
type LeaderboardRow struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	EggsFound   int64     `json:"eggs_found"`
	LastFoundAt time.Time `json:"last_found_at"`
}

// EasterEggService records hidden egg finds
type EasterEggService struct {
	repo    repository.EasterEggRepository
	keys    map[string]bool
	signals Signals
	now     func() time.Time
}

// NewEasterEggService creates a new easter egg service over the given key set
func NewEasterEggService(repo repository.EasterEggRepository, keys []string, signals Signals) *EasterEggService {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return &EasterEggService{
		repo:    repo,
		keys:    set,
		signals: signals,
		now:     time.Now,
	}
}

// RecordFind stores that userID found key
func (s *EasterEggService) RecordFind(ctx context.Context, userID uuid.UUID, key string) (*entity.EasterEggFind, error) {
	if !s.keys[key] {
		return nil, apperror.NewNotFoundError("Easter egg")
	}

	find := &entity.EasterEggFind{
		UserID:  userID,
		EggKey:  key,
		FoundAt: s.now(),
	}
	if err := s.repo.Create(ctx, find); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewBadRequestError("Easter egg already found")
		}
		return nil, err
	}

	s.signals.broadcast(realtime.EasterEggsUpdated)
	return find, nil
}

// MyFinds lists the eggs userID has found
func (s *EasterEggService) MyFinds(ctx context.Context, userID uuid.UUID) ([]entity.EasterEggFind, error) {
	finds, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if finds == nil {
		finds = []entity.EasterEggFind{}
	}
	return finds, nil
}

// Leaderboard ranks users by finds
func (s *EasterEggService) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	entries, err := s.repo.Leaderboard(ctx, defaultLeaderboardSize)
	if err != nil {
		return nil, err
	}

	rows := make([]LeaderboardRow, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, LeaderboardRow{
			Rank:        i + 1,
			UserID:      e.UserID,
			Name:        displayName(e.FirstName, e.LastName),
			EggsFound:   e.EggsFound,
			LastFoundAt: e.LastFoundAt,
		})
	}
	return rows, nil
}
