package service

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTombolaService(f *fixture, seed int64) *TombolaService {
	return NewTombolaService(f.transactor, fakeTombolaRepo{f.store}, rand.New(rand.NewSource(seed)), f.signals)
}

func sellTickets(t *testing.T, svc *TombolaService, sellers []uuid.UUID, perSeller int) {
	t.Helper()
	n := 0
	for _, seller := range sellers {
		for i := 0; i < perSeller; i++ {
			n++
			_, err := svc.BuyTicket(context.Background(), &BuyTicketInput{
				UserID:       seller,
				TicketNumber: fmt.Sprintf("T-%03d", n),
				FirstName:    "Guest",
				LastName:     fmt.Sprint(n),
			})
			require.NoError(t, err)
		}
	}
}

func TestBuyTicket(t *testing.T) {
	f := newFixture()
	svc := newTombolaService(f, 1)
	ctx := context.Background()
	seller := uuid.New()

	ticket, err := svc.BuyTicket(ctx, &BuyTicketInput{UserID: seller, TicketNumber: "T-1", FirstName: "Guest", LastName: "One"})
	require.NoError(t, err)
	assert.Equal(t, "T-1", ticket.TicketNumber)
	assert.False(t, ticket.PurchasedAt.IsZero())

	_, err = svc.BuyTicket(ctx, &BuyTicketInput{UserID: seller, TicketNumber: "T-1", FirstName: "Guest", LastName: "Two"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	generated, err := svc.BuyTicket(ctx, &BuyTicketInput{UserID: seller, FirstName: "Guest", LastName: "Three"})
	require.NoError(t, err)
	assert.NotEmpty(t, generated.TicketNumber)

	tickets, err := svc.ListTickets(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestDrawTooFewParticipants(t *testing.T) {
	f := newFixture()
	svc := newTombolaService(f, 1)
	sellTickets(t, svc, []uuid.UUID{uuid.New(), uuid.New()}, 5)

	_, err := svc.Draw(context.Background())
	assert.Equal(t, apperror.ErrTooFewParticipants, err)

	for _, ticket := range f.store.tickets {
		assert.False(t, ticket.IsWinner)
		assert.Equal(t, enum.PrizeTierNone, ticket.PrizeTier)
	}
}

func TestDraw(t *testing.T) {
	f := newFixture()
	svc := newTombolaService(f, 42)
	sellers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	sellTickets(t, svc, sellers, 3)
	ctx := context.Background()

	result, err := svc.Draw(ctx)
	require.NoError(t, err)
	require.NotNil(t, result.Winners.First)
	require.NotNil(t, result.Winners.Second)
	require.NotNil(t, result.Winners.Third)

	owners := map[uuid.UUID]bool{
		result.Winners.First.UserID:  true,
		result.Winners.Second.UserID: true,
		result.Winners.Third.UserID:  true,
	}
	assert.Len(t, owners, 3, "one winning ticket per participant")

	tiers := map[enum.PrizeTier]int{}
	for _, ticket := range f.store.tickets {
		if ticket.IsWinner {
			tiers[ticket.PrizeTier]++
		}
	}
	assert.Equal(t, map[enum.PrizeTier]int{enum.PrizeTierFirst: 1, enum.PrizeTierSecond: 1, enum.PrizeTierThird: 1}, tiers)

	_, err = svc.Draw(ctx)
	assert.Equal(t, apperror.ErrAlreadyDrawn, err)

	winners, err := svc.Winners(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Winners.First.ID, winners.Winners.First.ID)
	assert.Equal(t, result.Winners.Third.ID, winners.Winners.Third.ID)
}

func TestDrawIsDeterministicForSeed(t *testing.T) {
	sellers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	draw := func() [3]string {
		f := newFixture()
		svc := newTombolaService(f, 7)
		sellTickets(t, svc, sellers, 4)
		result, err := svc.Draw(context.Background())
		require.NoError(t, err)
		return [3]string{
			result.Winners.First.TicketNumber,
			result.Winners.Second.TicketNumber,
			result.Winners.Third.TicketNumber,
		}
	}

	assert.Equal(t, draw(), draw())
}

func TestResetReopensDraw(t *testing.T) {
	f := newFixture()
	svc := newTombolaService(f, 3)
	sellTickets(t, svc, []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}, 1)
	ctx := context.Background()

	_, err := svc.Draw(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))
	assert.Empty(t, f.store.tickets)

	winners, err := svc.Winners(ctx)
	require.NoError(t, err)
	assert.Nil(t, winners.Winners.First)

	sellTickets(t, svc, []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}, 1)
	_, err = svc.Draw(ctx)
	assert.NoError(t, err)
}
