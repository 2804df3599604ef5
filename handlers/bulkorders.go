package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/config"
	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
	"github.com/mithaasdelights/mithaas-backend-go/utils"
)

// CreateBulkOrder records a bulk enquiry from the public form and hands
// back a WhatsApp link for the follow-up conversation.
func CreateBulkOrder(c echo.Context) error {
	var in models.BulkOrderCreate
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	bulkOrder := models.NewBulkOrder(in)

	ctx, cancel := dbCtx()
	defer cancel()
	if _, err := database.DB.Collection(database.ColBulkOrders).InsertOne(ctx, bulkOrder); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to create bulk order request")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"bulk_order": bulkOrder,
		"whatsapp_link": utils.WhatsAppLink(
			config.Get().ShopPhone,
			utils.BulkOrderWhatsAppMessage(bulkOrder.Name, bulkOrder.ProductName, bulkOrder.Quantity),
		),
	})
}

// ListBulkOrders returns every bulk enquiry, newest first (admin).
func ListBulkOrders(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection(database.ColBulkOrders).Find(ctx, bson.M{}, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch bulk orders")
	}
	defer cursor.Close(ctx)

	bulkOrders := []models.BulkOrder{}
	if err := cursor.All(ctx, &bulkOrders); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode bulk orders")
	}
	return c.JSON(http.StatusOK, bulkOrders)
}

// UpdateBulkOrderStatus moves an enquiry along its follow-up pipeline
// (admin).
func UpdateBulkOrderStatus(c echo.Context) error {
	status := models.BulkOrderStatus(c.QueryParam("status"))
	if !models.ValidBulkOrderStatus(status) {
		return detail(c, http.StatusBadRequest, "unknown status")
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.BulkOrder
	err := database.DB.Collection(database.ColBulkOrders).FindOneAndUpdate(
		ctx,
		bson.M{"id": c.Param("id")},
		bson.M{"$set": bson.M{"status": status, "updated_at": models.Now()}},
		mongoReturnAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return detail(c, http.StatusNotFound, "bulk order not found")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update bulk order")
	}
	return c.JSON(http.StatusOK, updated)
}
