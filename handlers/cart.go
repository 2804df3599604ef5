package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
)

type cartItemRequest struct {
	ProductID     string `json:"product_id"`
	VariantWeight string `json:"variant_weight"`
	Quantity      int    `json:"quantity"`
}

func loadCart(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := database.DB.Collection(database.ColCarts).
		FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{UserID: userID, Items: []models.CartItem{}, UpdatedAt: models.Now()}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

func saveCart(ctx context.Context, cart models.Cart) error {
	cart.UpdatedAt = models.Now()
	_, err := database.DB.Collection(database.ColCarts).ReplaceOne(
		ctx,
		bson.M{"user_id": cart.UserID},
		cart,
		options.Replace().SetUpsert(true),
	)
	return err
}

// resolveVariantPrice looks up the current price of (product, weight).
func resolveVariantPrice(ctx context.Context, productID, weight string) (float64, error) {
	var product models.Product
	err := database.DB.Collection(database.ColProducts).
		FindOne(ctx, bson.M{"id": productID}).Decode(&product)
	if err != nil {
		return 0, err
	}
	variant, ok := product.FindVariant(weight)
	if !ok {
		return 0, mongo.ErrNoDocuments
	}
	return variant.Price, nil
}

// GetCart returns the user's server cart, creating an empty one on first
// use. Reading an existing cart leaves updated_at alone.
func GetCart(c echo.Context) error {
	userID := currentUserID(c)
	cartLocks.Lock(userID)
	defer cartLocks.Unlock(userID)

	ctx, cancel := dbCtx()
	defer cancel()

	var cart models.Cart
	err := database.DB.Collection(database.ColCarts).
		FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		cart = models.Cart{UserID: userID, Items: []models.CartItem{}, UpdatedAt: models.Now()}
		if err := saveCart(ctx, cart); err != nil {
			return detail(c, http.StatusInternalServerError, "failed to save cart")
		}
		return c.JSON(http.StatusOK, cart)
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch cart")
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return c.JSON(http.StatusOK, cart)
}

// AddToCart adds a variant-keyed item; an existing key absorbs the quantity.
func AddToCart(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Quantity < 1 {
		return detail(c, http.StatusBadRequest, "quantity must be at least 1")
	}

	userID := currentUserID(c)
	cartLocks.Lock(userID)
	defer cartLocks.Unlock(userID)

	ctx, cancel := dbCtx()
	defer cancel()

	price, err := resolveVariantPrice(ctx, req.ProductID, req.VariantWeight)
	if err != nil {
		return detail(c, http.StatusBadRequest, "product variant not found")
	}

	cart, err := loadCart(ctx, userID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch cart")
	}
	cart.Items = models.MergeItem(cart.Items, models.CartItem{
		ProductID:     req.ProductID,
		VariantWeight: req.VariantWeight,
		Quantity:      req.Quantity,
		UnitPrice:     price,
	})
	if err := saveCart(ctx, cart); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to save cart")
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateCartItem sets an item's quantity; zero or less removes it.
func UpdateCartItem(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}

	userID := currentUserID(c)
	cartLocks.Lock(userID)
	defer cartLocks.Unlock(userID)

	ctx, cancel := dbCtx()
	defer cancel()

	cart, err := loadCart(ctx, userID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch cart")
	}

	found := false
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID == req.ProductID && item.VariantWeight == req.VariantWeight {
			found = true
			if req.Quantity <= 0 {
				continue
			}
			if price, err := resolveVariantPrice(ctx, req.ProductID, req.VariantWeight); err == nil {
				item.UnitPrice = price
			}
			item.Quantity = req.Quantity
		}
		items = append(items, item)
	}
	if !found {
		return detail(c, http.StatusNotFound, "item not found in cart")
	}
	cart.Items = items

	if err := saveCart(ctx, cart); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to save cart")
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveFromCart deletes one variant-keyed item.
func RemoveFromCart(c echo.Context) error {
	productID := c.Param("productId")
	weight := c.QueryParam("variant_weight")

	userID := currentUserID(c)
	cartLocks.Lock(userID)
	defer cartLocks.Unlock(userID)

	ctx, cancel := dbCtx()
	defer cancel()

	cart, err := loadCart(ctx, userID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch cart")
	}

	items := cart.Items[:0]
	found := false
	for _, item := range cart.Items {
		if item.ProductID == productID && item.VariantWeight == weight {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return detail(c, http.StatusNotFound, "item not found in cart")
	}
	cart.Items = items

	if err := saveCart(ctx, cart); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to save cart")
	}
	return c.JSON(http.StatusOK, cart)
}

// ClearCart empties the cart.
func ClearCart(c echo.Context) error {
	userID := currentUserID(c)
	cartLocks.Lock(userID)
	defer cartLocks.Unlock(userID)

	ctx, cancel := dbCtx()
	defer cancel()

	if err := saveCart(ctx, models.Cart{UserID: userID, Items: []models.CartItem{}}); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to clear cart")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "cart cleared"})
}

// MergeCart folds a guest cart into the server cart at login. Each guest
// item goes through add semantics; items whose variant no longer exists are
// skipped and reported.
func MergeCart(c echo.Context) error {
	var guestItems []cartItemRequest
	if err := c.Bind(&guestItems); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}

	userID := currentUserID(c)
	cartLocks.Lock(userID)
	defer cartLocks.Unlock(userID)

	ctx, cancel := dbCtx()
	defer cancel()

	cart, err := loadCart(ctx, userID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch cart")
	}

	skipped := []cartItemRequest{}
	for _, gi := range guestItems {
		if gi.Quantity < 1 {
			continue
		}
		price, err := resolveVariantPrice(ctx, gi.ProductID, gi.VariantWeight)
		if err != nil {
			skipped = append(skipped, gi)
			continue
		}
		cart.Items = models.MergeItem(cart.Items, models.CartItem{
			ProductID:     gi.ProductID,
			VariantWeight: gi.VariantWeight,
			Quantity:      gi.Quantity,
			UnitPrice:     price,
		})
	}

	if err := saveCart(ctx, cart); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to save cart")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"cart":    cart,
		"skipped": skipped,
	})
}

// ValidateCart drops items whose product or variant disappeared and
// refreshes unit prices on the survivors. Removed items come back in the
// body so the caller can tell the user.
func ValidateCart(c echo.Context) error {
	userID := currentUserID(c)
	cartLocks.Lock(userID)
	defer cartLocks.Unlock(userID)

	ctx, cancel := dbCtx()
	defer cancel()

	cart, err := loadCart(ctx, userID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch cart")
	}

	removed := []models.CartItem{}
	kept := []models.CartItem{}
	for _, item := range cart.Items {
		price, err := resolveVariantPrice(ctx, item.ProductID, item.VariantWeight)
		if err != nil {
			removed = append(removed, item)
			continue
		}
		item.UnitPrice = price
		kept = append(kept, item)
	}
	cart.Items = kept

	if err := saveCart(ctx, cart); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to save cart")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"removed":    removed,
		"kept_count": len(kept),
		"cart":       cart,
	})
}

// purgeCartsByVariant strips one variant of a product from every cart in a
// single bulk update. Invoked by the catalog when an update drops a weight.
func purgeCartsByVariant(ctx context.Context, productID, weight string) error {
	_, err := database.DB.Collection(database.ColCarts).UpdateMany(
		ctx,
		bson.M{},
		bson.M{
			"$pull": bson.M{"items": bson.M{"product_id": productID, "variant_weight": weight}},
			"$set":  bson.M{"updated_at": models.Now()},
		},
	)
	return err
}

// purgeCartsByProduct strips every reference to a deleted product.
func purgeCartsByProduct(ctx context.Context, productID string) error {
	_, err := database.DB.Collection(database.ColCarts).UpdateMany(
		ctx,
		bson.M{},
		bson.M{
			"$pull": bson.M{"items": bson.M{"product_id": productID}},
			"$set":  bson.M{"updated_at": models.Now()},
		},
	)
	return err
}
