package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
)

// CreateReview submits a review; it stays pending until an admin approves
// it and only then counts toward the product rating.
func CreateReview(c echo.Context) error {
	var in models.ReviewCreate
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := dbCtx()
	defer cancel()

	count, err := database.DB.Collection(database.ColProducts).
		CountDocuments(ctx, bson.M{"id": in.ProductID})
	if err != nil || count == 0 {
		return detail(c, http.StatusNotFound, "product not found")
	}

	user := currentUser(c)
	review := models.NewReview(in, user.ID, user.Name)
	if _, err := database.DB.Collection(database.ColReviews).InsertOne(ctx, review); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to create review")
	}
	return c.JSON(http.StatusCreated, review)
}

// ListProductReviews returns a product's approved reviews; pending ones are
// included only for admins asking for them.
func ListProductReviews(c echo.Context) error {
	filter := bson.M{"product_id": c.Param("id")}
	if !(c.QueryParam("include_pending") == "true" && isAdmin(c)) {
		filter["is_approved"] = true
	}

	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection(database.ColReviews).Find(ctx, filter, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch reviews")
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode reviews")
	}
	return c.JSON(http.StatusOK, reviews)
}

// ListPendingReviews returns every unapproved review (admin).
func ListPendingReviews(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	cursor, err := database.DB.Collection(database.ColReviews).
		Find(ctx, bson.M{"is_approved": false})
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch reviews")
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode reviews")
	}
	return c.JSON(http.StatusOK, reviews)
}

// ApproveReview marks a review approved and refreshes the product's rating
// aggregate synchronously.
func ApproveReview(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	var review models.Review
	err := database.DB.Collection(database.ColReviews).FindOneAndUpdate(
		ctx,
		bson.M{"id": c.Param("id")},
		bson.M{"$set": bson.M{"is_approved": true}},
	).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return detail(c, http.StatusNotFound, "review not found")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to approve review")
	}

	if err := recomputeProductRating(ctx, review.ProductID); err != nil {
		log.WithError(err).WithField("product_id", review.ProductID).
			Error("rating recompute failed")
		return detail(c, http.StatusInternalServerError, "failed to update product rating")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "review approved"})
}

// DeleteReview removes a review; if it was approved the product's aggregate
// is refreshed.
func DeleteReview(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	var review models.Review
	err := database.DB.Collection(database.ColReviews).
		FindOneAndDelete(ctx, bson.M{"id": c.Param("id")}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return detail(c, http.StatusNotFound, "review not found")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to delete review")
	}

	if review.IsApproved {
		if err := recomputeProductRating(ctx, review.ProductID); err != nil {
			log.WithError(err).WithField("product_id", review.ProductID).
				Error("rating recompute failed")
			return detail(c, http.StatusInternalServerError, "failed to update product rating")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "review deleted"})
}

// recomputeProductRating derives (rating, review_count) from the approved
// reviews: the mean rounded to one decimal, or the default when none exist.
func recomputeProductRating(ctx context.Context, productID string) error {
	cursor, err := database.DB.Collection(database.ColReviews).
		Find(ctx, bson.M{"product_id": productID, "is_approved": true})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return err
	}
	ratings := make([]int, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}

	rating, count := models.AggregateRating(ratings)
	_, err = database.DB.Collection(database.ColProducts).UpdateOne(
		ctx,
		bson.M{"id": productID},
		bson.M{"$set": bson.M{"rating": rating, "review_count": count, "updated_at": models.Now()}},
	)
	return err
}
