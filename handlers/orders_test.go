package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
)

func testOrder(userID string) models.Order {
	return models.NewOrder(userID,
		[]models.CartItem{{ProductID: "p1", VariantWeight: "500g", Quantity: 1, UnitPrice: 450}},
		450, 0, 0, "", "64 Kaveri Nagar", "+919876543210", "a@b.c", models.PaymentMethodCOD)
}

func TestCancelOrderLosingRaceInitiatesNoRefund(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("guarded write misses when a concurrent cancel won", func(mt *mtest.T) {
		database.DB = mt.DB
		// Any refund attempt would dereference the nil gateway and panic.
		Gateway = nil

		order := testOrder("u1")
		order.PaymentStatus = models.PaymentCompleted
		order.Gateway.PaymentID = "pay_1"

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "mithaas.orders", mtest.FirstBatch, docOf(mt, order)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)

		c, rec := newEchoContext(http.MethodPost, "/")
		c.SetParamNames("id")
		c.SetParamValues(order.ID)
		asUser(c, "u1")

		require.NoError(mt, CancelOrder(c))
		assert.Equal(mt, http.StatusForbidden, rec.Code)
	})
}

func TestCancelOrderRefundsAfterGuardedWrite(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("refund fires once the cancel is persisted", func(mt *mtest.T) {
		database.DB = mt.DB
		Gateway = newTestGateway()

		order := testOrder("u1")
		order.PaymentStatus = models.PaymentCompleted
		order.Gateway.PaymentID = "pay_1"

		persisted := order
		persisted.AppendStatus(models.OrderStatusCancelled, "cancelled by customer")

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "mithaas.orders", mtest.FirstBatch, docOf(mt, order)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: docOf(mt, persisted)}),
			mtest.CreateSuccessResponse(),
		)

		c, rec := newEchoContext(http.MethodPost, "/")
		c.SetParamNames("id")
		c.SetParamValues(order.ID)
		asUser(c, "u1")

		require.NoError(mt, CancelOrder(c))
		require.Equal(mt, http.StatusOK, rec.Code)

		var got models.Order
		require.NoError(mt, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(mt, models.OrderStatusCancelled, got.Status)
		require.NotNil(mt, got.RefundStatus)
		assert.Equal(mt, models.RefundInitiated, *got.RefundStatus)
	})
}

func TestUpdateOrderStatusConcurrentChange(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stale status makes the conditional write miss", func(mt *mtest.T) {
		database.DB = mt.DB

		order := testOrder("u1")

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "mithaas.orders", mtest.FirstBatch, docOf(mt, order)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)

		c, rec := newEchoContext(http.MethodPut, "/?status=preparing")
		c.SetParamNames("id")
		c.SetParamValues(order.ID)

		require.NoError(mt, UpdateOrderStatus(c))
		assert.Equal(mt, http.StatusBadRequest, rec.Code)
	})
}
