package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
)

func newUserFixture(t *testing.T) (*repository.MemoryStore, *UserService, Principal) {
	t.Helper()
	store := repository.NewMemoryStore()

	admin := &domain.User{Email: "admin@example.com", FirstName: "Admin", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, store.Create(context.Background(), admin))

	client := &domain.User{Email: "client@example.com", FirstName: "Client", Role: domain.RoleClient, IsActive: true}
	require.NoError(t, store.Create(context.Background(), client))

	svc := NewUserService(store, store, testLogger())
	return store, svc, Principal{UserID: admin.ID, Role: domain.RoleAdmin}
}

func TestUserAdminIsAdminOnly(t *testing.T) {
	_, svc, _ := newUserFixture(t)
	ctx := context.Background()
	staff := Principal{UserID: 5, Role: domain.RoleStaff}

	_, err := svc.List(ctx, staff, repository.UserFilter{})
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	_, err = svc.UpdateRole(ctx, staff, 2, domain.RoleStaff)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	_, err = svc.GrantBonusPoints(ctx, staff, 2, 10)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestUpdateRole(t *testing.T) {
	_, svc, admin := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.UpdateRole(ctx, admin, 2, domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, user.Role)

	_, err = svc.UpdateRole(ctx, admin, 2, "superuser")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.UpdateRole(ctx, admin, admin.UserID, domain.RoleClient)
	assert.Equal(t, apperrors.KindBusiness, apperrors.KindOf(err), "admins cannot demote themselves")
}

func TestToggleActive(t *testing.T) {
	_, svc, admin := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.ToggleActive(ctx, admin, 2)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	user, err = svc.ToggleActive(ctx, admin, 2)
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	_, err = svc.ToggleActive(ctx, admin, admin.UserID)
	assert.Equal(t, apperrors.KindBusiness, apperrors.KindOf(err), "admins cannot lock themselves out")
}

func TestGrantBonusPoints(t *testing.T) {
	store, svc, admin := newUserFixture(t)
	ctx := context.Background()

	balance, err := svc.GrantBonusPoints(ctx, admin, 2, 250)
	require.NoError(t, err)
	assert.Equal(t, 250, balance)

	user, err := store.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 250, user.BonusPoints)

	_, err = svc.GrantBonusPoints(ctx, admin, 2, 0)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	_, err = svc.GrantBonusPoints(ctx, admin, 2, -5)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.GrantBonusPoints(ctx, admin, 404, 10)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
