package handlers

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
)

func productFilter(category, search string, featuredOnly bool) bson.M {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if featuredOnly {
		filter["is_featured"] = true
	}
	if search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"name": re},
			{"description": re},
			{"category": re},
		}
	}
	return filter
}

func findProducts(c echo.Context, filter bson.M) error {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection(database.ColProducts).Find(ctx, filter, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch products")
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode products")
	}
	return c.JSON(http.StatusOK, products)
}

// GetProducts lists the catalog, newest first, with optional category,
// search and featured_only filters.
func GetProducts(c echo.Context) error {
	return findProducts(c, productFilter(
		c.QueryParam("category"),
		c.QueryParam("search"),
		c.QueryParam("featured_only") == "true",
	))
}

// SearchProducts is the dedicated search endpoint.
func SearchProducts(c echo.Context) error {
	return findProducts(c, productFilter("", c.QueryParam("q"), false))
}

// GetFeaturedProducts lists featured catalog entries.
func GetFeaturedProducts(c echo.Context) error {
	return findProducts(c, bson.M{"is_featured": true})
}

func GetProduct(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	var product models.Product
	err := database.DB.Collection(database.ColProducts).
		FindOne(ctx, bson.M{"id": c.Param("id")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return detail(c, http.StatusNotFound, "product not found")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch product")
	}
	return c.JSON(http.StatusOK, product)
}

func CreateProduct(c echo.Context) error {
	var in models.ProductCreate
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	product := models.NewProduct(in)

	ctx, cancel := dbCtx()
	defer cancel()
	if _, err := database.DB.Collection(database.ColProducts).InsertOne(ctx, product); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to create product")
	}

	log.WithFields(log.Fields{"product_id": product.ID, "name": product.Name}).Info("product created")
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct replaces a product's mutable fields. Id, created_at and the
// review aggregate are preserved; variants dropped by the update are purged
// from every cart.
func UpdateProduct(c echo.Context) error {
	var in models.ProductCreate
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := dbCtx()
	defer cancel()

	products := database.DB.Collection(database.ColProducts)
	var existing models.Product
	err := products.FindOne(ctx, bson.M{"id": c.Param("id")}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		return detail(c, http.StatusNotFound, "product not found")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch product")
	}

	updated := existing
	updated.Name = in.Name
	updated.Description = in.Description
	updated.Category = in.Category
	updated.ImageURL = in.ImageURL
	updated.MediaGallery = in.MediaGallery
	updated.Ingredients = in.Ingredients
	updated.Variants = in.Variants
	updated.IsAvailable = in.IsAvailable
	updated.IsSoldOut = in.IsSoldOut
	updated.IsFeatured = in.IsFeatured
	updated.DiscountPercentage = in.DiscountPercentage
	updated.UpdatedAt = models.Now()

	if _, err := products.ReplaceOne(ctx, bson.M{"id": existing.ID}, updated); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update product")
	}

	for _, weight := range existing.RemovedWeights(in.Variants) {
		if err := purgeCartsByVariant(ctx, existing.ID, weight); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"product_id": existing.ID, "weight": weight,
			}).Error("cart purge after variant removal failed")
			return detail(c, http.StatusInternalServerError, "failed to purge stale cart items")
		}
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteProduct removes a product and purges it from every cart.
func DeleteProduct(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	productID := c.Param("id")
	res, err := database.DB.Collection(database.ColProducts).DeleteOne(ctx, bson.M{"id": productID})
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to delete product")
	}
	if res.DeletedCount == 0 {
		return detail(c, http.StatusNotFound, "product not found")
	}

	if err := purgeCartsByProduct(ctx, productID); err != nil {
		log.WithError(err).WithField("product_id", productID).
			Error("cart purge after product deletion failed")
		return detail(c, http.StatusInternalServerError, "failed to purge stale cart items")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}
