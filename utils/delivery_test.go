package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shop coordinates used across the pricing tests.
const (
	shopLat = 22.738152
	shopLon = 75.831858
)

// pointAtKm returns a coordinate roughly km kilometres due north of the shop.
func pointAtKm(km float64) (float64, float64) {
	return shopLat + km/111.0, shopLon
}

func TestDeliveryChargePickupIsFree(t *testing.T) {
	lat, lon := pointAtKm(30)

	q, err := DeliveryCharge(shopLat, shopLon, lat, lon, 200, ModePickup)
	require.NoError(t, err)
	assert.Equal(t, 0.0, q.DeliveryCharge)
	assert.True(t, q.IsFreeDelivery)
}

func TestDeliveryChargeSmallOrderPaysPerKm(t *testing.T) {
	lat, lon := pointAtKm(1.9)

	q, err := DeliveryCharge(shopLat, shopLon, lat, lon, 500, ModeDelivery)
	require.NoError(t, err)
	// 1.9 km rounds up to 2 billable km at ₹19 each.
	assert.Equal(t, 38.0, q.DeliveryCharge)
	assert.False(t, q.IsFreeDelivery)
}

func TestDeliveryChargeFreeAboveThresholdWithinRadius(t *testing.T) {
	lat, lon := pointAtKm(8)

	q, err := DeliveryCharge(shopLat, shopLon, lat, lon, 1500, ModeDelivery)
	require.NoError(t, err)
	assert.Equal(t, 0.0, q.DeliveryCharge)
	assert.True(t, q.IsFreeDelivery)
}

func TestDeliveryChargeLargeOrderPaysBeyondFreeRadius(t *testing.T) {
	lat, lon := pointAtKm(12.5)

	q, err := DeliveryCharge(shopLat, shopLon, lat, lon, 2000, ModeDelivery)
	require.NoError(t, err)
	// Only the kilometres past the free radius bill: ceil(12.5-10) = 3.
	assert.Equal(t, 57.0, q.DeliveryCharge)
}

func TestDeliveryChargeOutOfRange(t *testing.T) {
	lat, lon := pointAtKm(60)

	_, err := DeliveryCharge(shopLat, shopLon, lat, lon, 5000, ModeDelivery)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestDeliveryChargeIsPure(t *testing.T) {
	lat, lon := pointAtKm(7)

	first, err := DeliveryCharge(shopLat, shopLon, lat, lon, 800, ModeDelivery)
	require.NoError(t, err)
	second, err := DeliveryCharge(shopLat, shopLon, lat, lon, 800, ModeDelivery)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHaversine(t *testing.T) {
	// Indore to Mumbai is roughly 530 km as the crow flies.
	d := Haversine(22.7196, 75.8577, 19.0760, 72.8777)
	assert.InDelta(t, 530, d, 30)

	assert.Equal(t, 0.0, Haversine(shopLat, shopLon, shopLat, shopLon))
}
