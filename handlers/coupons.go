package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/models"
)

// CreateCoupon registers a new coupon (admin).
func CreateCoupon(c echo.Context) error {
	var in models.CouponCreate
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	coupon := models.NewCoupon(in)

	ctx, cancel := dbCtx()
	defer cancel()
	_, err := database.DB.Collection(database.ColCoupons).InsertOne(ctx, coupon)
	if mongo.IsDuplicateKeyError(err) {
		return detail(c, http.StatusBadRequest, "coupon code already exists")
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to create coupon")
	}

	log.WithField("code", coupon.Code).Info("coupon created")
	return c.JSON(http.StatusCreated, coupon)
}

// ListCoupons returns every coupon (admin).
func ListCoupons(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection(database.ColCoupons).Find(ctx, bson.M{}, opts)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to fetch coupons")
	}
	defer cursor.Close(ctx)

	coupons := []models.Coupon{}
	if err := cursor.All(ctx, &coupons); err != nil {
		return detail(c, http.StatusInternalServerError, "failed to decode coupons")
	}
	return c.JSON(http.StatusOK, coupons)
}

// DeleteCoupon removes a coupon (admin).
func DeleteCoupon(c echo.Context) error {
	ctx, cancel := dbCtx()
	defer cancel()

	res, err := database.DB.Collection(database.ColCoupons).DeleteOne(ctx, bson.M{"id": c.Param("id")})
	if err != nil {
		return detail(c, http.StatusInternalServerError, "failed to delete coupon")
	}
	if res.DeletedCount == 0 {
		return detail(c, http.StatusNotFound, "coupon not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "coupon deleted"})
}

type applyCouponRequest struct {
	Code        string  `json:"code"`
	OrderAmount float64 `json:"order_amount"`
}

// ApplyCoupon evaluates a coupon against an order amount without consuming
// it. Evaluation is idempotent.
func ApplyCoupon(c echo.Context) error {
	var req applyCouponRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := dbCtx()
	defer cancel()

	eval, err := evaluateCoupon(ctx, req.Code, req.OrderAmount, time.Now())
	if err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, eval)
}

// evaluateCoupon resolves the code (case-folded) and applies the discount
// rules.
func evaluateCoupon(ctx context.Context, code string, orderAmount float64, now time.Time) (models.Evaluation, error) {
	var coupon models.Coupon
	err := database.DB.Collection(database.ColCoupons).
		FindOne(ctx, bson.M{"code": models.NormalizeCouponCode(code)}).Decode(&coupon)
	if err == mongo.ErrNoDocuments {
		return models.Evaluation{}, &models.CouponError{Kind: models.CouponUnknown}
	}
	if err != nil {
		return models.Evaluation{}, err
	}
	return coupon.Evaluate(orderAmount, now)
}

// consumeCoupon atomically bumps used_count iff it is still below the limit
// (or no limit is set). The conditional update is the single point of real
// atomicity in the engine; a miss means the limit was hit.
func consumeCoupon(ctx context.Context, code string) error {
	filter := bson.M{
		"code": models.NormalizeCouponCode(code),
		"$or": []bson.M{
			{"usage_limit": bson.M{"$exists": false}},
			{"usage_limit": nil},
			{"$expr": bson.M{"$lt": []interface{}{"$used_count", "$usage_limit"}}},
		},
	}
	res, err := database.DB.Collection(database.ColCoupons).
		UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"used_count": 1}})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return &models.CouponError{Kind: models.CouponLimitReached}
	}
	return nil
}
