package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mithaasdelights/mithaas-backend-go/config"
	"github.com/mithaasdelights/mithaas-backend-go/utils"
)

type deliveryQuoteRequest struct {
	Pincode      string  `json:"pincode"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	OrderAmount  float64 `json:"order_amount"`
	DeliveryType string  `json:"delivery_type"`
}

// CalculateDelivery quotes the delivery charge for a destination given
// either a pincode or explicit coordinates.
func CalculateDelivery(c echo.Context) error {
	var req deliveryQuoteRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}

	mode := utils.DeliveryMode(req.DeliveryType)
	if mode == "" {
		mode = utils.ModeDelivery
	}
	if mode != utils.ModeDelivery && mode != utils.ModePickup {
		return detail(c, http.StatusBadRequest, "delivery_type must be delivery or pickup")
	}
	if req.OrderAmount < 0 {
		return detail(c, http.StatusBadRequest, "order_amount cannot be negative")
	}

	lat, lon := req.Latitude, req.Longitude
	if mode == utils.ModeDelivery && lat == 0 && lon == 0 {
		if req.Pincode == "" {
			return detail(c, http.StatusBadRequest, "pincode or coordinates required")
		}
		var err error
		lat, lon, err = utils.GeocodePincode(req.Pincode)
		if err != nil {
			return detail(c, http.StatusBadRequest, err.Error())
		}
	}

	cfg := config.Get()
	quote, err := utils.DeliveryCharge(cfg.ShopLat, cfg.ShopLon, lat, lon, req.OrderAmount, mode)
	if err == utils.ErrOutOfRange {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to calculate delivery charge")
	}
	return c.JSON(http.StatusOK, quote)
}

// DeliveryPolicy publishes the pricing constants the storefront renders.
func DeliveryPolicy(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"max_distance_km":          utils.MaxDeliveryDistanceKm,
		"free_delivery_min_amount": utils.FreeDeliveryMinAmount,
		"free_delivery_max_km":     utils.FreeDeliveryMaxKm,
		"charge_per_km":            utils.DeliveryChargePerKm,
	})
}
