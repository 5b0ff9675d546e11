package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreationState(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("cash on delivery confirms with a 24h window", func(t *testing.T) {
		method, status, deadline, err := CreationState("cash_on_delivery", now)

		require.NoError(t, err)
		assert.Equal(t, PaymentMethodCOD, method)
		assert.Equal(t, OrderStatusConfirmed, status)
		require.NotNil(t, deadline)
		assert.Equal(t, now.Add(24*time.Hour), *deadline)
	})

	t.Run("payos starts pending with no window", func(t *testing.T) {
		method, status, deadline, err := CreationState("payos", now)

		require.NoError(t, err)
		assert.Equal(t, PaymentMethodPayOS, method)
		assert.Equal(t, OrderStatusPending, status)
		assert.Nil(t, deadline)
	})

	t.Run("unspecified method starts pending", func(t *testing.T) {
		_, status, deadline, err := CreationState("", now)

		require.NoError(t, err)
		assert.Equal(t, OrderStatusPending, status)
		assert.Nil(t, deadline)
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		_, _, _, err := CreationState("bitcoin", now)
		assert.ErrorIs(t, err, ErrInvalidPayment)
	})
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusPaid},
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusPaid},
		{OrderStatusConfirmed, OrderStatusShipped},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusPaid, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderStatusPaid, OrderStatusCancelled}, // a late EXPIRED webhook must not undo payment
		{OrderStatusPaid, OrderStatusPending},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusShipped},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusPaid},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusPending, OrderStatusDelivered},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	}
	for _, to := range all {
		assert.False(t, CanTransition(OrderStatusDelivered, to))
		assert.False(t, CanTransition(OrderStatusCancelled, to))
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("returned")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCanCancel(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	codOrder := func(created time.Time, status OrderStatus) *Order {
		deadline := created.Add(CODCancelWindow)
		return &Order{
			Status:          status,
			PaymentMethod:   PaymentMethodCOD,
			CancelableUntil: &deadline,
			CreatedAt:       created,
		}
	}

	t.Run("confirmed COD inside window", func(t *testing.T) {
		o := codOrder(now.Add(-1*time.Hour), OrderStatusConfirmed)
		assert.NoError(t, o.CanCancel(now))
	})

	t.Run("confirmed COD after 25 hours", func(t *testing.T) {
		o := codOrder(now.Add(-25*time.Hour), OrderStatusConfirmed)
		assert.ErrorIs(t, o.CanCancel(now), ErrCancelWindowClosed)
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		o := codOrder(now.Add(-CODCancelWindow), OrderStatusConfirmed)
		assert.NoError(t, o.CanCancel(now))
	})

	t.Run("pending hosted payment has no deadline", func(t *testing.T) {
		o := &Order{Status: OrderStatusPending, PaymentMethod: PaymentMethodPayOS}
		assert.NoError(t, o.CanCancel(now))
	})

	t.Run("terminal and in-transit states refuse", func(t *testing.T) {
		for _, status := range []OrderStatus{OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
			o := &Order{Status: status, PaymentMethod: PaymentMethodPayOS}
			assert.ErrorIs(t, o.CanCancel(now), ErrOrderNotCancelable, "status %s", status)
		}
	})

	t.Run("paid order refuses cancellation", func(t *testing.T) {
		o := &Order{Status: OrderStatusPaid, PaymentMethod: PaymentMethodPayOS}
		assert.ErrorIs(t, o.CanCancel(now), ErrOrderNotCancelable)
	})
}
