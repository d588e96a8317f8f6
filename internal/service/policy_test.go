package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golden-samovar/internal/domain"
)

func TestAuthorize(t *testing.T) {
	client := Principal{UserID: 1, Role: domain.RoleClient}
	staff := Principal{UserID: 2, Role: domain.RoleStaff}
	admin := Principal{UserID: 3, Role: domain.RoleAdmin}

	ownershipActions := []Action{ActionReadOrder, ActionCancelOrder, ActionReadBooking, ActionCancelBooking}
	for _, action := range ownershipActions {
		assert.NoError(t, Authorize(client, action, 1), "owner may act on own resource")
		assert.Error(t, Authorize(client, action, 2), "client may not act on others' resources")
		assert.NoError(t, Authorize(staff, action, 1), "staff bypass ownership")
		assert.NoError(t, Authorize(admin, action, 1))
	}

	staffActions := []Action{ActionAdvanceOrder, ActionListAllOrders, ActionManageBooking, ActionListAllBookings, ActionManageCatalog}
	for _, action := range staffActions {
		assert.Error(t, Authorize(client, action, 1), "staff-only action rejects clients even as owners")
		assert.NoError(t, Authorize(staff, action, 0))
		assert.NoError(t, Authorize(admin, action, 0))
	}

	assert.Error(t, Authorize(client, ActionManageUsers, 0))
	assert.Error(t, Authorize(staff, ActionManageUsers, 0), "user administration is admin only")
	assert.NoError(t, Authorize(admin, ActionManageUsers, 0))
}
