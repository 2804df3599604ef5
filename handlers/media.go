package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
)

// ListMedia returns the gallery, newest first.
func ListMedia(c echo.Context) error {
	filter := bson.M{}
	if t := c.QueryParam("media_type"); t != "" {
		filter["media_type"] = t
	}

	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection(database.ColMedia).Find(ctx, filter, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch media")
	}
	defer cursor.Close(ctx)

	items := []models.MediaItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode media")
	}
	return c.JSON(http.StatusOK, items)
}

// CreateMedia registers an externally hosted media entry (admin). Upload
// and hashing happen at the storage edge; only the URL and hash land here.
func CreateMedia(c echo.Context) error {
	var in models.MediaCreate
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	item := models.NewMediaItem(in)

	ctx, cancel := dbCtx()
	defer cancel()
	if _, err := database.DB.Collection(database.ColMedia).InsertOne(ctx, item); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to create media entry")
	}
	return c.JSON(http.StatusCreated, item)
}

// DeleteMedia removes a gallery entry (admin).
func DeleteMedia(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	res, err := database.DB.Collection(database.ColMedia).DeleteOne(ctx, bson.M{"id": c.Param("id")})
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to delete media entry")
	}
	if res.DeletedCount == 0 {
		return detail(c, http.StatusNotFound, "media entry not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "media entry deleted"})
}
