package orderControllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadcart/threadcart-api/models"
)

func catalog() map[uint]models.Product {
	return map[uint]models.Product{
		1: {ID: 1, Name: "Tee", Description: "d", Price: 100000, Image: "/img/tee.png"},
		2: {ID: 2, Name: "Jean", Description: "d", Price: 350000},
	}
}

func TestBuildLineItemsSnapshotsAndTotals(t *testing.T) {
	lines, total, err := buildLineItems([]orderItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}, catalog())

	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, float64(550000), total)

	// The line carries the catalog values frozen at order time.
	assert.Equal(t, uint(1), lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, float64(100000), lines[0].Price)
	assert.Equal(t, "Tee", lines[0].Name)
	assert.Equal(t, "/img/tee.png", lines[0].Image)
}

func TestBuildLineItemsTotalIgnoresLaterCatalogEdits(t *testing.T) {
	byID := catalog()
	lines, total, err := buildLineItems([]orderItemRequest{{ProductID: 1, Quantity: 2}}, byID)
	require.NoError(t, err)
	require.Equal(t, float64(200000), total)

	// A price change after the snapshot must not leak into the order.
	p := byID[1]
	p.Price = 1
	byID[1] = p
	assert.Equal(t, float64(100000), lines[0].Price)
}

func TestBuildLineItemsRejectsBadQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, _, err := buildLineItems([]orderItemRequest{{ProductID: 1, Quantity: qty}}, catalog())
		assert.ErrorIs(t, err, models.ErrInvalidQuantity, "quantity %d", qty)
	}
}

func TestBuildLineItemsRejectsUnknownProduct(t *testing.T) {
	// One bad reference fails the whole request; no partial order.
	lines, _, err := buildLineItems([]orderItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 999, Quantity: 1},
	}, catalog())

	assert.ErrorIs(t, err, models.ErrUnknownProduct)
	assert.Nil(t, lines)
}

func codOrder(cancelableUntil time.Time) *models.Order {
	return &models.Order{
		Status:          models.OrderStatusConfirmed,
		PaymentMethod:   models.PaymentMethodCOD,
		CancelableUntil: &cancelableUntil,
	}
}

func TestGuardStatusChangeEnforcesCODWindowOnEveryPath(t *testing.T) {
	now := time.Now()

	// A confirmed COD order whose window expired an hour ago: the table
	// alone would allow confirmed -> cancelled, so the guard must be the
	// thing that rejects it regardless of which endpoint asks.
	code, err := guardStatusChange(codOrder(now.Add(-time.Hour)), models.OrderStatusCancelled, now)
	assert.ErrorIs(t, err, models.ErrCancelWindowClosed)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGuardStatusChangeAllowsCancelWithinWindow(t *testing.T) {
	now := time.Now()

	code, err := guardStatusChange(codOrder(now.Add(time.Hour)), models.OrderStatusCancelled, now)
	assert.NoError(t, err)
	assert.Zero(t, code)
}

func TestGuardStatusChangeRejectsCancelOfPaidOrder(t *testing.T) {
	order := &models.Order{
		Status:        models.OrderStatusPaid,
		PaymentMethod: models.PaymentMethodPayOS,
	}

	code, err := guardStatusChange(order, models.OrderStatusCancelled, time.Now())
	assert.ErrorIs(t, err, models.ErrOrderNotCancelable)
	assert.Equal(t, http.StatusConflict, code)
}

func TestGuardStatusChangeRejectsForbiddenTransition(t *testing.T) {
	order := &models.Order{
		Status:        models.OrderStatusDelivered,
		PaymentMethod: models.PaymentMethodPayOS,
	}

	code, err := guardStatusChange(order, models.OrderStatusShipped, time.Now())
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Equal(t, http.StatusConflict, code)
}

func TestCancelErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, cancelErrorStatus(models.ErrCancelWindowClosed))
	assert.Equal(t, http.StatusConflict, cancelErrorStatus(models.ErrOrderNotCancelable))
}

func TestStatusFromGateway(t *testing.T) {
	status, ok := statusFromGateway("PAID")
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusPaid, status)

	for _, s := range []string{"CANCELLED", "EXPIRED"} {
		status, ok = statusFromGateway(s)
		require.True(t, ok)
		assert.Equal(t, models.OrderStatusCancelled, status)
	}

	_, ok = statusFromGateway("PENDING")
	assert.False(t, ok)
	_, ok = statusFromGateway("")
	assert.False(t, ok)
}

func TestWebhookOrderCode(t *testing.T) {
	assert.Equal(t, "123456789", webhookOrderCode(float64(123456789)))
	assert.Equal(t, "42", webhookOrderCode("42"))
	assert.Equal(t, "", webhookOrderCode(nil))
	assert.Equal(t, "", webhookOrderCode(true))
}

func TestValidAddress(t *testing.T) {
	full := models.ShippingAddress{
		FullName:   "Nguyen Van A",
		Email:      "a@example.com",
		Phone:      "0123456789",
		Address:    "123 Test Street",
		City:       "Ho Chi Minh",
		PostalCode: "700000",
	}
	assert.True(t, validAddress(full))

	missingPhone := full
	missingPhone.Phone = ""
	assert.False(t, validAddress(missingPhone))

	missingCity := full
	missingCity.City = ""
	assert.False(t, validAddress(missingCity))
}
