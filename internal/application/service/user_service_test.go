package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUserRole(t *testing.T) {
	f := newFixture()
	svc := NewUserService(fakeUserRepo{f.store}, f.signals)
	ctx := context.Background()
	admin := f.store.addUser("Ada", enum.RoleAdmin, enum.GradeDirector)
	sam := f.store.addUser("Sam", enum.RoleEmployee, enum.GradeTrainee)

	role, grade := enum.RoleManager, enum.GradeManager
	updated, err := svc.UpdateUserRole(ctx, &UpdateUserRoleInput{ActorID: admin.ID, UserID: sam.ID, Role: &role, Grade: &grade})
	require.NoError(t, err)
	assert.Equal(t, enum.RoleManager, updated.Role)
	assert.Equal(t, enum.GradeManager, f.store.users[sam.ID].Grade)
	assert.Contains(t, f.broadcaster.Events(), realtime.UsersUpdated)

	_, err = svc.UpdateUserRole(ctx, &UpdateUserRoleInput{ActorID: admin.ID, UserID: admin.ID, Role: &role})
	assert.Equal(t, apperror.ErrSelfModification, err)
	assert.Equal(t, enum.RoleAdmin, f.store.users[admin.ID].Role)

	_, err = svc.UpdateUserRole(ctx, &UpdateUserRoleInput{ActorID: admin.ID, UserID: uuid.New(), Role: &role})
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestDeactivateUser(t *testing.T) {
	f := newFixture()
	svc := NewUserService(fakeUserRepo{f.store}, f.signals)
	ctx := context.Background()
	admin := f.store.addUser("Ada", enum.RoleAdmin, enum.GradeDirector)
	sam := f.store.addUser("Sam", enum.RoleEmployee, enum.GradeStaff)

	assert.Equal(t, apperror.ErrSelfModification, svc.DeactivateUser(ctx, admin.ID, admin.ID))
	require.NoError(t, svc.DeactivateUser(ctx, admin.ID, sam.ID))
	assert.False(t, f.store.users[sam.ID].Active)
	require.NoError(t, svc.DeactivateUser(ctx, admin.ID, sam.ID))

	active, err := svc.ListUsers(ctx, &repository.UserFilterParams{Pagination: pagination.DefaultPagination(), ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, admin.ID, active.Items[0].ID)
}
