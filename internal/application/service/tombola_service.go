package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/sangkips/tavern-api/pkg/utils"
)

const minTombolaParticipants = 3

// TombolaWinners maps each prize tier to its winning ticket
type TombolaWinners struct {
	First  *entity.TombolaTicket `json:"first"`
	Second *entity.TombolaTicket `json:"second"`
	Third  *entity.TombolaTicket `json:"third"`
}

// DrawResult is the body returned by a draw and by the winners query
type DrawResult struct {
	Winners TombolaWinners `json:"winners"`
}

func (w *TombolaWinners) set(ticket *entity.TombolaTicket) {
	switch ticket.PrizeTier {
	case enum.PrizeTierFirst:
		w.First = ticket
	case enum.PrizeTierSecond:
		w.Second = ticket
	case enum.PrizeTierThird:
		w.Third = ticket
	}
}

// TombolaService sells raffle tickets and draws the winners
type TombolaService struct {
	transactor  repository.Transactor
	tombolaRepo repository.TombolaRepository
	signals     Signals
	now         func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTombolaService creates a new tombola service. A nil rng is seeded from
// the clock.
func NewTombolaService(transactor repository.Transactor, tombolaRepo repository.TombolaRepository, rng *rand.Rand, signals Signals) *TombolaService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TombolaService{
		transactor:  transactor,
		tombolaRepo: tombolaRepo,
		signals:     signals,
		now:         time.Now,
		rng:         rng,
	}
}

// BuyTicketInput represents a ticket sale
type BuyTicketInput struct {
	UserID       uuid.UUID
	TicketNumber string
	FirstName    string
	LastName     string
	Email        *string
	Phone        *string
}

// BuyTicket records a ticket sold by UserID. An empty number is generated.
func (s *TombolaService) BuyTicket(ctx context.Context, input *BuyTicketInput) (*entity.TombolaTicket, error) {
	number := strings.TrimSpace(input.TicketNumber)
	if number == "" {
		number = utils.GenerateTicketNumber()
	}

	ticket := &entity.TombolaTicket{
		TicketNumber: number,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		UserID:       input.UserID,
		PurchasedAt:  s.now(),
	}

	if err := s.tombolaRepo.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewBadRequestError("Ticket number " + number + " is already taken")
		}
		return nil, err
	}

	s.signals.broadcast(realtime.TombolaUpdated)
	return ticket, nil
}

// ListTickets returns every ticket ordered by number
func (s *TombolaService) ListTickets(ctx context.Context) ([]entity.TombolaTicket, error) {
	tickets, err := s.tombolaRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []entity.TombolaTicket{}
	}
	return tickets, nil
}

// Draw picks one ticket per participant, shuffles the picks and crowns the
// first three. Nothing is written unless all three tiers are assigned.
func (s *TombolaService) Draw(ctx context.Context) (*DrawResult, error) {
	result := &DrawResult{}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		winners, err := s.tombolaRepo.CountWinners(ctx)
		if err != nil {
			return err
		}
		if winners > 0 {
			return apperror.ErrAlreadyDrawn
		}

		tickets, err := s.tombolaRepo.ListNonWinning(ctx)
		if err != nil {
			return err
		}

		// Group by seller in order of first appearance so a seeded rng
		// always produces the same draw.
		var owners []uuid.UUID
		byOwner := make(map[uuid.UUID][]int)
		for i := range tickets {
			owner := tickets[i].UserID
			if _, ok := byOwner[owner]; !ok {
				owners = append(owners, owner)
			}
			byOwner[owner] = append(byOwner[owner], i)
		}
		if len(owners) < minTombolaParticipants {
			return apperror.ErrTooFewParticipants
		}

		picks := s.pick(owners, byOwner)
		for i, tier := range enum.WinningTiers {
			ticket := &tickets[picks[i]]
			if err := s.tombolaRepo.MarkWinner(ctx, ticket.ID, tier); err != nil {
				return err
			}
			ticket.IsWinner = true
			ticket.PrizeTier = tier
			result.Winners.set(ticket)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.signals.broadcast(realtime.TombolaUpdated)
	return result, nil
}

func (s *TombolaService) pick(owners []uuid.UUID, byOwner map[uuid.UUID][]int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	picks := make([]int, 0, len(owners))
	for _, owner := range owners {
		candidates := byOwner[owner]
		picks = append(picks, candidates[s.rng.Intn(len(candidates))])
	}
	s.rng.Shuffle(len(picks), func(i, j int) {
		picks[i], picks[j] = picks[j], picks[i]
	})
	return picks
}

// Winners returns the current winners by tier; tiers not drawn are null
func (s *TombolaService) Winners(ctx context.Context) (*DrawResult, error) {
	tickets, err := s.tombolaRepo.ListWinners(ctx)
	if err != nil {
		return nil, err
	}

	result := &DrawResult{}
	for i := range tickets {
		result.Winners.set(&tickets[i])
	}
	return result, nil
}

// Reset deletes every ticket, reopening the raffle
func (s *TombolaService) Reset(ctx context.Context) error {
	if err := s.tombolaRepo.DeleteAll(ctx); err != nil {
		return err
	}
	s.signals.broadcast(realtime.TombolaUpdated)
	return nil
}
