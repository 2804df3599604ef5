package utils

import (
	"fmt"
	"math"
)

type DeliveryMode string

const (
	ModeDelivery DeliveryMode = "delivery"
	ModePickup   DeliveryMode = "pickup"
)

// Delivery pricing policy.
const (
	MaxDeliveryDistanceKm  = 50.0
	FreeDeliveryMinAmount  = 1500.0
	FreeDeliveryMaxKm      = 10.0
	DeliveryChargePerKm    = 19.0
	earthRadiusKm          = 6371.0
)

// ErrOutOfRange is returned for addresses beyond the serviceable radius.
var ErrOutOfRange = fmt.Errorf("delivery distance exceeds %.0f km", MaxDeliveryDistanceKm)

// Haversine returns the great-circle distance in kilometres between two
// coordinate pairs.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	lat1, lon1, lat2, lon2 = rad(lat1), rad(lon1), rad(lat2), rad(lon2)

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// DeliveryQuote is what the pricer reports for a (destination, amount, mode)
// triple.
type DeliveryQuote struct {
	DistanceKm     float64      `json:"distance_km"`
	DeliveryCharge float64      `json:"delivery_charge"`
	IsFreeDelivery bool         `json:"is_free_delivery"`
	Mode           DeliveryMode `json:"delivery_type"`
}

// DeliveryCharge prices a delivery. Pure: same inputs always give the same
// quote. Pickup is free; orders of FreeDeliveryMinAmount or more ride free
// within FreeDeliveryMaxKm and pay only for the kilometres beyond it;
// smaller orders pay per kilometre from zero.
func DeliveryCharge(shopLat, shopLon, custLat, custLon, orderAmount float64, mode DeliveryMode) (DeliveryQuote, error) {
	if mode == ModePickup {
		return DeliveryQuote{Mode: ModePickup, IsFreeDelivery: true}, nil
	}

	distance := math.Round(Haversine(shopLat, shopLon, custLat, custLon)*100) / 100
	if distance > MaxDeliveryDistanceKm {
		return DeliveryQuote{}, ErrOutOfRange
	}

	var charge float64
	if orderAmount >= FreeDeliveryMinAmount {
		billable := math.Ceil(math.Max(0, distance-FreeDeliveryMaxKm))
		charge = billable * DeliveryChargePerKm
	} else {
		charge = math.Ceil(distance) * DeliveryChargePerKm
	}

	return DeliveryQuote{
		DistanceKm:     distance,
		DeliveryCharge: charge,
		IsFreeDelivery: charge == 0,
		Mode:           ModeDelivery,
	}, nil
}
