package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
)

// AdminListUsers returns every registered account (admin).
func AdminListUsers(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection(database.ColUsers).Find(ctx, bson.M{}, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch users")
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode users")
	}
	return c.JSON(http.StatusOK, users)
}

// AdminSetUserActive activates or deactivates an account (admin). A
// deactivated account fails every authenticated call with 403.
func AdminSetUserActive(c echo.Context) error {
	active, err := strconv.ParseBool(c.QueryParam("active"))
	if err != nil {
		return detail(c, http.StatusBadRequest, "active must be true or false")
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var updated models.User
	err = database.DB.Collection(database.ColUsers).FindOneAndUpdate(
		ctx,
		bson.M{"id": c.Param("id")},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": models.Now()}},
		mongoReturnAfter(),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return detail(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update user")
	}

	log.WithFields(log.Fields{"user_id": updated.ID, "active": active}).Info("user active flag changed")
	return c.JSON(http.StatusOK, updated)
}

// GetWishlist resolves the caller's wishlist into products. Ids pointing at
// deleted products are skipped.
func GetWishlist(c echo.Context) error {
	user := currentUser(c)

	ctx, cancel := dbCtx()
	defer cancel()

	products := []models.Product{}
	if len(user.Wishlist) > 0 {
		cursor, err := database.DB.Collection(database.ColProducts).
			Find(ctx, bson.M{"id": bson.M{"$in": user.Wishlist}})
		if err != nil {
			return detail(c, http.StatusInternalServerError, "failed to fetch wishlist")
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &products); err != nil {
			return detail(c, http.StatusInternalServerError, "failed to decode wishlist")
		}
	}
	return c.JSON(http.StatusOK, products)
}

// AddToWishlist puts a product id on the caller's wishlist.
func AddToWishlist(c echo.Context) error {
	productID := c.Param("productId")

	ctx, cancel := dbCtx()
	defer cancel()

	n, err := database.DB.Collection(database.ColProducts).
		CountDocuments(ctx, bson.M{"id": productID})
	if err != nil || n == 0 {
		return detail(c, http.StatusNotFound, "product not found")
	}

	_, err = database.DB.Collection(database.ColUsers).UpdateOne(
		ctx,
		bson.M{"id": currentUserID(c)},
		bson.M{
			"$addToSet": bson.M{"wishlist": productID},
			"$set":      bson.M{"updated_at": models.Now()},
		},
	)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update wishlist")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "added to wishlist"})
}

// RemoveFromWishlist drops a product id from the caller's wishlist.
func RemoveFromWishlist(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	_, err := database.DB.Collection(database.ColUsers).UpdateOne(
		ctx,
		bson.M{"id": currentUserID(c)},
		bson.M{
			"$pull": bson.M{"wishlist": c.Param("productId")},
			"$set":  bson.M{"updated_at": models.Now()},
		},
	)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to update wishlist")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "removed from wishlist"})
}
