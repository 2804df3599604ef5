package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/config"
	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/middleware"
	"github.com/mithaasdelights/mithaas-backend-go/models"
	"github.com/mithaasdelights/mithaas-backend-go/utils"
)

type createOrderRequest struct {
	Items           []models.CartItem    `json:"items"`
	TotalAmount     float64              `json:"total_amount"`
	DeliveryCharge  float64              `json:"delivery_charge"`
	DeliveryAddress string               `json:"delivery_address"`
	Phone           string               `json:"phone"`
	Email           string               `json:"email"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	CouponCode      string               `json:"coupon_code"`
}

// CreateOrder places an order: items are re-priced server-side, the total is
// checked against the client's, the coupon (if any) is consumed atomically
// with the insert, and gateway orders get a payment intent.
func CreateOrder(c echo.Context) error {
	success := false
	defer func() { middleware.RecordOrderOperation("create", success) }()

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return detail(c, http.StatusBadRequest, "order has no items")
	}
	if req.PaymentMethod != models.PaymentMethodCOD && req.PaymentMethod != models.PaymentMethodGateway {
		return detail(c, http.StatusBadRequest, "payment_method must be cod or gateway")
	}
	if !models.ValidPhone(req.Phone) {
		return detail(c, http.StatusBadRequest, "invalid phone number")
	}
	if req.DeliveryAddress == "" {
		return detail(c, http.StatusBadRequest, "delivery_address is required")
	}
	if req.DeliveryCharge < 0 {
		return detail(c, http.StatusBadRequest, "invalid delivery charge")
	}

	userID := currentUserID(c)
	ctx, cancel := dbCtx()
	defer cancel()

	// Re-price every item from the catalog; the client's unit prices are
	// not trusted.
	items := make([]models.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return detail(c, http.StatusBadRequest, "item quantity must be at least 1")
		}
		price, err := resolveVariantPrice(ctx, item.ProductID, item.VariantWeight)
		if err != nil {
			return detail(c, http.StatusBadRequest, "product variant not found: "+item.ProductID)
		}
		item.UnitPrice = price
		items = append(items, item)
	}

	total := models.Round2(models.Subtotal(items) + req.DeliveryCharge)
	if math.Abs(total-req.TotalAmount) > 0.01 {
		return detail(c, http.StatusBadRequest, "order total does not match server-side pricing")
	}

	discount := 0.0
	couponCode := ""
	if req.CouponCode != "" {
		eval, err := evaluateCoupon(ctx, req.CouponCode, total, time.Now())
		if err != nil {
			return detail(c, http.StatusBadRequest, err.Error())
		}
		discount = eval.DiscountAmount
		couponCode = models.NormalizeCouponCode(req.CouponCode)
	}

	order := models.NewOrder(userID, items, total, discount, req.DeliveryCharge,
		couponCode, req.DeliveryAddress, req.Phone, req.Email, req.PaymentMethod)

	if req.PaymentMethod == models.PaymentMethodGateway {
		gatewayOrderID, err := Gateway.CreateOrder(order.FinalAmount, order.ID)
		if err != nil {
			log.WithError(err).Error("payment intent creation failed")
			return detail(c, http.StatusInternalServerError, "payment gateway error")
		}
		order.Gateway.OrderID = gatewayOrderID
	}

	// Coupon consumption and order insertion stand or fall together.
	err := database.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if couponCode != "" {
			if err := consumeCoupon(sc, couponCode); err != nil {
				return err
			}
		}
		_, err := database.DB.Collection(database.ColOrders).InsertOne(sc, order)
		return err
	})
	if err != nil {
		if ce, ok := err.(*models.CouponError); ok {
			return detail(c, http.StatusBadRequest, ce.Error())
		}
		log.WithError(err).Error("order insertion failed")
		return detail(c, http.StatusInternalServerError, "failed to create order")
	}

	// The server cart is spent once the order exists.
	cartLocks.Lock(userID)
	if err := saveCart(ctx, models.Cart{UserID: userID, Items: []models.CartItem{}}); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("failed to clear cart after order")
	}
	cartLocks.Unlock(userID)

	success = true
	log.WithFields(log.Fields{"order_id": order.ID, "amount": order.FinalAmount}).Info("order placed")

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"order": order,
		"whatsapp_link": utils.WhatsAppLink(
			config.Get().ShopPhone,
			utils.OrderWhatsAppMessage(order.ID, order.FinalAmount),
		),
	})
}

func findOrder(c echo.Context, orderID string) (models.Order, bool) {
	ctx, cancel := dbCtx()
	defer cancel()

	var order models.Order
	err := database.DB.Collection(database.ColOrders).
		FindOne(ctx, bson.M{"id": orderID}).Decode(&order)
	if err != nil {
		return models.Order{}, false
	}
	return order, true
}

// GetOrder returns one order to its owner or an admin.
func GetOrder(c echo.Context) error {
	order, ok := findOrder(c, c.Param("id"))
	if !ok {
		return detail(c, http.StatusNotFound, "order not found")
	}
	if order.UserID != currentUserID(c) && !isAdmin(c) {
		return detail(c, http.StatusForbidden, "not your order")
	}
	return c.JSON(http.StatusOK, order)
}

// ListOrders returns every order, newest first (admin).
func ListOrders(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection(database.ColOrders).Find(ctx, bson.M{}, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch orders")
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode orders")
	}
	return c.JSON(http.StatusOK, orders)
}

// MyOrders lists the caller's orders, newest first.
func MyOrders(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection(database.ColOrders).
		Find(ctx, bson.M{"user_id": currentUserID(c)}, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch orders")
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode orders")
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus applies an admin status transition, validated against
// the machine. Backward moves are rejected.
func UpdateOrderStatus(c echo.Context) error {
	success := false
	defer func() { middleware.RecordOrderOperation("update_status", success) }()

	to := models.OrderStatus(c.QueryParam("status"))
	if !models.ValidStatus(to) {
		return detail(c, http.StatusBadRequest, "unknown status")
	}

	order, ok := findOrder(c, c.Param("id"))
	if !ok {
		return detail(c, http.StatusNotFound, "order not found")
	}

	if !models.CanTransition(order.Status, to) {
		illegal := models.IllegalTransition{From: order.Status, To: to}
		return detail(c, http.StatusBadRequest, illegal.Error())
	}

	ctx, cancel := dbCtx()
	defer cancel()

	// The write is conditional on the status the transition was validated
	// against, so concurrent updates cannot overwrite each other's history
	// entries.
	now := models.Now()
	var updated models.Order
	err := database.DB.Collection(database.ColOrders).FindOneAndUpdate(
		ctx,
		bson.M{"id": order.ID, "status": order.Status},
		bson.M{
			"$set": bson.M{"status": to, "updated_at": now},
			"$push": bson.M{"status_history": models.StatusEntry{
				Status: to, Timestamp: now, Note: "status updated by admin",
			}},
		},
		mongoReturnAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return detail(c, http.StatusBadRequest, "order status changed concurrently, retry")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update order")
	}

	success = true
	return c.JSON(http.StatusOK, updated)
}

// CancelOrder cancels an order. Customers may cancel inside the one-hour
// window while the order has not left the kitchen; admins any time before a
// terminal state. A completed payment triggers a refund.
func CancelOrder(c echo.Context) error {
	success := false
	defer func() { middleware.RecordOrderOperation("cancel", success) }()

	order, ok := findOrder(c, c.Param("id"))
	if !ok {
		return detail(c, http.StatusNotFound, "order not found")
	}

	admin := isAdmin(c)
	if !admin && order.UserID != currentUserID(c) {
		return detail(c, http.StatusForbidden, "not your order")
	}

	var note string
	var blocked []models.OrderStatus
	if admin {
		if !order.CanAdminCancel() {
			return detail(c, http.StatusForbidden, "order can no longer be cancelled")
		}
		note = "cancelled by admin"
		blocked = []models.OrderStatus{models.OrderStatusCancelled, models.OrderStatusDelivered}
	} else {
		if !order.CanCustomerCancel(time.Now()) {
			return detail(c, http.StatusForbidden, "cancellation window has closed")
		}
		note = "cancelled by customer"
		blocked = []models.OrderStatus{
			models.OrderStatusOutForDelivery, models.OrderStatusDelivered, models.OrderStatusCancelled,
		}
	}

	ctx, cancel := dbCtx()
	defer cancel()

	// Guarded write: of two concurrent cancels only one matches the filter,
	// so the status flips exactly once and the refund fires at most once.
	now := models.Now()
	var cancelled models.Order
	err := database.DB.Collection(database.ColOrders).FindOneAndUpdate(
		ctx,
		bson.M{"id": order.ID, "status": bson.M{"$nin": blocked}},
		bson.M{
			"$set": bson.M{"status": models.OrderStatusCancelled, "updated_at": now},
			"$push": bson.M{"status_history": models.StatusEntry{
				Status: models.OrderStatusCancelled, Timestamp: now, Note: note,
			}},
		},
		mongoReturnAfter(),
	).Decode(&cancelled)
	if err == mongo.ErrNoDocuments {
		return detail(c, http.StatusForbidden, "order can no longer be cancelled")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update order")
	}

	if cancelled.PaymentStatus == models.PaymentCompleted {
		if err := Gateway.Refund(cancelled.Gateway.PaymentID, cancelled.FinalAmount); err != nil {
			log.WithError(err).WithField("order_id", cancelled.ID).Error("refund initiation failed")
			return detail(c, http.StatusInternalServerError, "failed to initiate refund")
		}
		refund := models.RefundInitiated
		cancelled.RefundStatus = &refund
		if _, err := database.DB.Collection(database.ColOrders).UpdateOne(ctx,
			bson.M{"id": cancelled.ID},
			bson.M{"$set": bson.M{"refund_status": refund}},
		); err != nil {
			log.WithError(err).WithField("order_id", cancelled.ID).Warn("failed to record refund status")
		}
	}

	success = true
	log.WithField("order_id", cancelled.ID).Info("order cancelled")
	return c.JSON(http.StatusOK, cancelled)
}

// TrackOrder is the public tracking payload: status, payments and the
// timeline, nothing else.
func TrackOrder(c echo.Context) error {
	order, ok := findOrder(c, c.Param("id"))
	if !ok {
		return detail(c, http.StatusNotFound, "order not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"order_id":           order.ID,
		"status":             order.Status,
		"payment_status":     order.PaymentStatus,
		"created_at":         order.CreatedAt,
		"updated_at":         order.UpdatedAt,
		"estimated_delivery": order.EstimatedDelivery(),
		"status_history":     order.StatusHistory,
	})
}
