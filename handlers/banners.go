package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
)

// GetBanners lists banners currently live, in display order.
func GetBanners(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})
	cursor, err := database.DB.Collection(database.ColBanners).
		Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch banners")
	}
	defer cursor.Close(ctx)

	var all []models.Banner
	if err := cursor.All(ctx, &all); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode banners")
	}

	now := time.Now()
	live := []models.Banner{}
	for _, b := range all {
		if b.Live(now) {
			live = append(live, b)
		}
	}
	return c.JSON(http.StatusOK, live)
}

// ListAllBanners returns every banner regardless of state (admin).
func ListAllBanners(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}})
	cursor, err := database.DB.Collection(database.ColBanners).Find(ctx, bson.M{}, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch banners")
	}
	defer cursor.Close(ctx)

	banners := []models.Banner{}
	if err := cursor.All(ctx, &banners); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode banners")
	}
	return c.JSON(http.StatusOK, banners)
}

// CreateBanner adds a banner (admin).
func CreateBanner(c echo.Context) error {
	var in models.BannerCreate
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	banner := models.NewBanner(in)

	ctx, cancel := dbCtx()
	defer cancel()
	if _, err := database.DB.Collection(database.ColBanners).InsertOne(ctx, banner); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to create banner")
	}
	return c.JSON(http.StatusCreated, banner)
}

// UpdateBanner replaces a banner's fields (admin).
func UpdateBanner(c echo.Context) error {
	var in models.BannerCreate
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.Banner
	err := database.DB.Collection(database.ColBanners).FindOneAndUpdate(
		ctx,
		bson.M{"id": c.Param("id")},
		bson.M{"$set": bson.M{
			"title":         in.Title,
			"subtitle":      in.Subtitle,
			"image_url":     in.ImageURL,
			"cta_text":      in.CTAText,
			"cta_link":      in.CTALink,
			"display_order": in.DisplayOrder,
			"is_active":     in.IsActive,
			"start_date":    in.StartDate,
			"end_date":      in.EndDate,
			"updated_at":    models.Now(),
		}},
		mongoReturnAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return detail(c, http.StatusNotFound, "banner not found")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update banner")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteBanner removes a banner (admin).
func DeleteBanner(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	res, err := database.DB.Collection(database.ColBanners).DeleteOne(ctx, bson.M{"id": c.Param("id")})
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to delete banner")
	}
	if res.DeletedCount == 0 {
		return detail(c, http.StatusNotFound, "banner not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "banner deleted"})
}
