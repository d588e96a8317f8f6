package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-samovar/internal/auth"
	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
)

func newAuthFixture(t *testing.T) (*repository.MemoryStore, *AuthService) {
	t.Helper()
	store := repository.NewMemoryStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return store, NewAuthService(store, tokens, testLogger())
}

func registerInput() RegisterInput {
	return RegisterInput{
		Email:     "Guest@Example.com",
		Password:  "hunter22",
		FirstName: "Dana",
		Phone:     "+77010000000",
	}
}

func TestRegister(t *testing.T) {
	_, svc := newAuthFixture(t)

	result, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "guest@example.com", result.User.Email, "email stored lowercased")
	assert.Equal(t, domain.RoleClient, result.User.Role)
	assert.True(t, result.User.IsActive)
	assert.Zero(t, result.User.BonusPoints)
	assert.NotEqual(t, "hunter22", result.User.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	in := registerInput()
	in.Email = "not-an-email"
	_, err := svc.Register(ctx, in)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	in = registerInput()
	in.Password = "short"
	_, err = svc.Register(ctx, in)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	in = registerInput()
	in.FirstName = ""
	_, err = svc.Register(ctx, in)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	in := registerInput()
	in.Email = "GUEST@example.com" // same address, different case
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	result, err := svc.Login(ctx, "guest@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.Login(ctx, "guest@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// unknown accounts get the same answer as a wrong password
	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	store, svc := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	result.User.IsActive = false
	require.NoError(t, store.Update(ctx, result.User))

	_, err = svc.Login(ctx, "guest@example.com", "hunter22")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestResolvePrincipal(t *testing.T) {
	store, svc := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	user, err := svc.ResolvePrincipal(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	_, err = svc.ResolvePrincipal(ctx, "garbage.token.here")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	// a still-valid token stops working once the account is deactivated
	result.User.IsActive = false
	require.NoError(t, store.Update(ctx, result.User))
	_, err = svc.ResolvePrincipal(ctx, result.Token)
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestUpdateProfile(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, result.User.ID, UpdateProfileInput{
		LastName: "Satpaeva",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana", updated.FirstName, "empty fields leave existing values")
	assert.Equal(t, "Satpaeva", updated.LastName)
}
