package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusNew, OrderStatusConfirmed, true},
		{OrderStatusNew, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusDelivered, true},
		{OrderStatusReady, OrderStatusCancelled, true},

		{OrderStatusNew, OrderStatusPreparing, false},
		{OrderStatusNew, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusNew, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusDelivered, OrderStatusNew, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusNew.Terminal())
	assert.False(t, OrderStatusReady.Terminal())

	// an unknown status is neither valid nor terminal
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("shipped").Terminal())
}

func TestBookingStatusTransitions(t *testing.T) {
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusConfirmed))
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusCancelled))
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCompleted))
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCancelled))

	assert.False(t, BookingStatusPending.CanTransitionTo(BookingStatusCompleted))
	assert.False(t, BookingStatusCompleted.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusPending))
}

func TestBookingStatusCountsTowardsCapacity(t *testing.T) {
	assert.True(t, BookingStatusPending.CountsTowardsCapacity())
	assert.True(t, BookingStatusConfirmed.CountsTowardsCapacity())
	assert.False(t, BookingStatusCompleted.CountsTowardsCapacity())
	assert.False(t, BookingStatusCancelled.CountsTowardsCapacity())
}
