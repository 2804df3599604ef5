package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []CartItem {
	return []CartItem{
		{ProductID: "p1", VariantWeight: "500g", Quantity: 2, UnitPrice: 450},
		{ProductID: "p2", VariantWeight: "1kg", Quantity: 1, UnitPrice: 900},
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusDelivered, true},
		{OrderStatusConfirmed, OrderStatusOutForDelivery, true},
		{OrderStatusPreparing, OrderStatusConfirmed, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusOutForDelivery, OrderStatusCancelled, true},
		{OrderStatusDelivered, OrderStatusDelivered, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, OrderStatusConfirmed, InitialStatus(PaymentMethodCOD))
	assert.Equal(t, OrderStatusPending, InitialStatus(PaymentMethodGateway))
}

func TestNewOrder(t *testing.T) {
	items := sampleItems()
	o := NewOrder("u1", items, 1838, 38, 38, "SAVE20", "64 Kaveri Nagar", "+919876543210", "a@b.c", PaymentMethodCOD)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, OrderStatusConfirmed, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, 1800.0, o.FinalAmount)
	require.Len(t, o.StatusHistory, 1)
	assert.Equal(t, OrderStatusConfirmed, o.StatusHistory[0].Status)
	assert.WithinDuration(t, time.Now().Add(CancellationWindow), o.CancellationDeadline.Time, 5*time.Second)
	assert.False(t, o.AdvanceRequired)
}

func TestNewOrderSnapshotsItems(t *testing.T) {
	items := sampleItems()
	o := NewOrder("u1", items, 1800, 0, 0, "", "addr", "+919876543210", "a@b.c", PaymentMethodCOD)

	items[0].Quantity = 99
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestNewOrderAdvancePayment(t *testing.T) {
	o := NewOrder("u1", sampleItems(), 6000, 0, 0, "", "addr", "+919876543210", "a@b.c", PaymentMethodGateway)

	assert.True(t, o.AdvanceRequired)
	require.NotNil(t, o.AdvanceAmount)
	assert.Equal(t, 3000.0, *o.AdvanceAmount)
	assert.False(t, o.AdvancePaid)

	small := NewOrder("u1", sampleItems(), 4999.99, 0, 0, "", "addr", "+919876543210", "a@b.c", PaymentMethodGateway)
	assert.False(t, small.AdvanceRequired)
	assert.Nil(t, small.AdvanceAmount)
}

func TestCanCustomerCancel(t *testing.T) {
	o := NewOrder("u1", sampleItems(), 1800, 0, 0, "", "addr", "+919876543210", "a@b.c", PaymentMethodCOD)

	assert.True(t, o.CanCustomerCancel(time.Now()))
	assert.False(t, o.CanCustomerCancel(o.CancellationDeadline.Time))
	assert.False(t, o.CanCustomerCancel(o.CancellationDeadline.Time.Add(time.Minute)))

	o.Status = OrderStatusOutForDelivery
	assert.False(t, o.CanCustomerCancel(time.Now()))

	o.Status = OrderStatusCancelled
	assert.False(t, o.CanCustomerCancel(time.Now()))
}

func TestCanAdminCancel(t *testing.T) {
	o := NewOrder("u1", sampleItems(), 1800, 0, 0, "", "addr", "+919876543210", "a@b.c", PaymentMethodCOD)
	o.Status = OrderStatusOutForDelivery
	assert.True(t, o.CanAdminCancel())

	o.Status = OrderStatusDelivered
	assert.False(t, o.CanAdminCancel())
}

func TestTransition(t *testing.T) {
	o := NewOrder("u1", sampleItems(), 1800, 0, 0, "", "addr", "+919876543210", "a@b.c", PaymentMethodCOD)

	require.NoError(t, o.Transition(OrderStatusPreparing, "in kitchen"))
	assert.Equal(t, OrderStatusPreparing, o.Status)
	require.Len(t, o.StatusHistory, 2)
	assert.Equal(t, "in kitchen", o.StatusHistory[1].Note)

	err := o.Transition(OrderStatusConfirmed, "going back")
	var illegal *IllegalTransition
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, OrderStatusPreparing, illegal.From)
	assert.Len(t, o.StatusHistory, 2)
}

func TestEstimatedDelivery(t *testing.T) {
	o := NewOrder("u1", sampleItems(), 1800, 0, 0, "", "addr", "+919876543210", "a@b.c", PaymentMethodCOD)

	est := o.EstimatedDelivery()
	require.NotNil(t, est)
	assert.Equal(t, o.CreatedAt.Time.Add(48*time.Hour), est.Time)

	o.Status = OrderStatusDelivered
	assert.Nil(t, o.EstimatedDelivery())

	o.Status = OrderStatusCancelled
	assert.Nil(t, o.EstimatedDelivery())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(OrderStatusPreparing))
	assert.False(t, ValidStatus("shipped"))
}
