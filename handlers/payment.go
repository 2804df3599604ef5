package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/middleware"
	"github.com/mithaasdelights/mithaas-backend-go/models"
	"github.com/mithaasdelights/mithaas-backend-go/utils"
)

type createGatewayOrderRequest struct {
	Amount float64 `json:"amount"`
}

// CreateRazorpayOrder registers a standalone payment intent and hands the
// checkout page what it needs.
func CreateRazorpayOrder(c echo.Context) error {
	var req createGatewayOrderRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Amount <= 0 {
		return detail(c, http.StatusBadRequest, "amount must be positive")
	}

	gatewayOrderID, err := Gateway.CreateOrder(req.Amount, "checkout")
	if err != nil {
		log.WithError(err).Error("payment intent creation failed")
		return detail(c, http.StatusInternalServerError, "payment gateway error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"gateway_order_id": gatewayOrderID,
		"amount_paise":     utils.ToPaise(req.Amount),
		"currency":         "INR",
		"key_id":           Gateway.KeyID(),
	})
}

type verifyPaymentRequest struct {
	OrderID        string `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

// VerifyPayment reconciles a gateway callback with the order: the signature
// must check out and the gateway order id must match. Success marks the
// payment completed and confirms the order; replays are no-ops.
func VerifyPayment(c echo.Context) error {
	success := false
	defer func() { middleware.RecordOrderOperation("verify_payment", success) }()

	var req verifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}

	order, ok := findOrder(c, req.OrderID)
	if !ok {
		return detail(c, http.StatusNotFound, "order not found")
	}
	if order.Gateway.OrderID == "" || order.Gateway.OrderID != req.GatewayOrderID {
		return detail(c, http.StatusBadRequest, "gateway order mismatch")
	}

	// Replay of an already-verified callback: same end state, no new
	// history entry.
	if order.PaymentStatus == models.PaymentCompleted {
		success = true
		return c.JSON(http.StatusOK, order)
	}

	if order.Status != models.OrderStatusPending {
		return detail(c, http.StatusBadRequest, "order is not awaiting payment")
	}
	if !Gateway.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
		return detail(c, http.StatusBadRequest, "payment signature verification failed")
	}

	order.PaymentStatus = models.PaymentCompleted
	order.Gateway.PaymentID = req.PaymentID
	order.Gateway.Signature = req.Signature
	if order.AdvanceRequired {
		order.AdvancePaid = true
	}
	order.AppendStatus(models.OrderStatusConfirmed, "payment completed")

	ctx, cancel := dbCtx()
	defer cancel()
	if _, err := database.DB.Collection(database.ColOrders).
		ReplaceOne(ctx, bson.M{"id": order.ID}, order); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update order")
	}

	success = true
	log.WithField("order_id", order.ID).Info("payment verified")
	return c.JSON(http.StatusOK, order)
}
