package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/xpkg/apperrors"
)

func seedUser(t *testing.T, m *MemoryStore, points int) *domain.User {
	t.Helper()
	u := &domain.User{Email: "u@example.com", FirstName: "U", Role: domain.RoleClient, IsActive: true, BonusPoints: points}
	require.NoError(t, m.Create(context.Background(), u))
	return u
}

func TestWithTxRollsBackOnError(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, m, 10)

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(ctx context.Context) error {
		if _, err := m.AddBonusPoints(ctx, user.ID, 5); err != nil {
			return err
		}
		if err := m.CreateOrder(ctx, &domain.Order{OrderNumber: "X-1", UserID: user.ID, Status: domain.OrderStatusNew}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	u, err := m.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, u.BonusPoints, "balance write rolled back")

	orders, err := m.ListOrders(ctx, OrderFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Empty(t, orders, "order write rolled back")
}

func TestWithTxCommits(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, m, 10)

	err := m.WithTx(ctx, func(ctx context.Context) error {
		_, err := m.AddBonusPoints(ctx, user.ID, 5)
		return err
	})
	require.NoError(t, err)

	u, err := m.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, u.BonusPoints)
}

func TestAddBonusPointsGuard(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, m, 10)

	balance, err := m.AddBonusPoints(ctx, user.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	_, err = m.AddBonusPoints(ctx, user.ID, -1)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPoints)

	_, err = m.AddBonusPoints(ctx, 404, 1)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestOrderNumberUniqueness(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, m, 0)

	first := &domain.Order{OrderNumber: "260110-001", UserID: user.ID, Status: domain.OrderStatusNew}
	require.NoError(t, m.CreateOrder(ctx, first))

	dup := &domain.Order{OrderNumber: "260110-001", UserID: user.ID, Status: domain.OrderStatusNew}
	err := m.CreateOrder(ctx, dup)
	assert.ErrorIs(t, err, apperrors.ErrOrderNumberTaken)
}

func TestUpdateOrderStatusGuardsPreviousStatus(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	user := seedUser(t, m, 0)

	o := &domain.Order{OrderNumber: "260110-002", UserID: user.ID, Status: domain.OrderStatusNew}
	require.NoError(t, m.CreateOrder(ctx, o))

	require.NoError(t, m.UpdateOrderStatus(ctx, o.ID, domain.OrderStatusNew, domain.OrderStatusConfirmed, false))

	// a second transition from the stale status loses
	err := m.UpdateOrderStatus(ctx, o.ID, domain.OrderStatusNew, domain.OrderStatusCancelled, false)
	assert.Equal(t, apperrors.KindBusiness, apperrors.KindOf(err))
}
