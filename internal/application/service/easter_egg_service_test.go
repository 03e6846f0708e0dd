package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFind(t *testing.T) {
	f := newFixture()
	svc := NewEasterEggService(fakeEasterEggRepo{f.store}, []string{"konami", "night-owl"}, f.signals)
	ctx := context.Background()
	ana := f.store.addUser("Ana", enum.RoleEmployee, enum.GradeStaff)

	find, err := svc.RecordFind(ctx, ana.ID, "konami")
	require.NoError(t, err)
	assert.Equal(t, "konami", find.EggKey)
	assert.Contains(t, f.broadcaster.Events(), realtime.EasterEggsUpdated)

	_, err = svc.RecordFind(ctx, ana.ID, "konami")
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	_, err = svc.RecordFind(ctx, ana.ID, "not-an-egg")
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	finds, err := svc.MyFinds(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, finds, 1)
}

func TestLeaderboard(t *testing.T) {
	f := newFixture()
	svc := NewEasterEggService(fakeEasterEggRepo{f.store}, []string{"a", "b"}, f.signals)
	ctx := context.Background()
	ana := f.store.addUser("Ana", enum.RoleEmployee, enum.GradeStaff)
	ben := f.store.addUser("Ben", enum.RoleEmployee, enum.GradeStaff)
	cleo := f.store.addUser("Cleo", enum.RoleEmployee, enum.GradeStaff)

	clock := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	finds := []struct {
		user uuid.UUID
		key  string
	}{{ben.ID, "a"}, {cleo.ID, "a"}, {ana.ID, "a"}, {ana.ID, "b"}}
	for _, find := range finds {
		_, err := svc.RecordFind(ctx, find.user, find.key)
		require.NoError(t, err)
	}

	rows, err := svc.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, ana.ID, rows[0].UserID)
	assert.Equal(t, int64(2), rows[0].EggsFound)
	assert.Equal(t, 1, rows[0].Rank)
	// ties go to whoever got there first
	assert.Equal(t, ben.ID, rows[1].UserID)
	assert.Equal(t, cleo.ID, rows[2].UserID)
	assert.Equal(t, "Cleo Test", rows[2].Name)
}
