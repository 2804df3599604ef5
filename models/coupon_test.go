package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(i int) *int           { return &i }

func validCoupon() Coupon {
	return Coupon{
		ID:                 "c1",
		Code:               "SAVE20",
		DiscountPercentage: 20,
		MinOrderAmount:     500,
		ExpiryDate:         At(time.Now().Add(24 * time.Hour)),
		IsActive:           true,
	}
}

func TestCouponEvaluateDiscount(t *testing.T) {
	c := validCoupon()

	ev, err := c.Evaluate(1000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 200.0, ev.DiscountAmount)
	assert.Equal(t, 800.0, ev.FinalAmount)
}

func TestCouponEvaluateCapsDiscount(t *testing.T) {
	c := validCoupon()
	c.MaxDiscountAmount = ptrFloat(150)

	ev, err := c.Evaluate(1000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 150.0, ev.DiscountAmount)
	assert.Equal(t, 850.0, ev.FinalAmount)
}

func TestCouponEvaluateFloorsDiscount(t *testing.T) {
	c := validCoupon()
	c.DiscountPercentage = 33

	// 33% of 999.99 is 329.9967; the customer never gets rounded up.
	ev, err := c.Evaluate(999.99, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 329.99, ev.DiscountAmount)
}

func TestCouponEvaluateInactive(t *testing.T) {
	c := validCoupon()
	c.IsActive = false

	_, err := c.Evaluate(1000, time.Now())
	var cerr *CouponError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, CouponInactive, cerr.Kind)
}

func TestCouponEvaluateExpiry(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := validCoupon()
	c.ExpiryDate = At(expiry)

	// Valid strictly before the expiry instant.
	_, err := c.Evaluate(1000, expiry.Add(-time.Second))
	assert.NoError(t, err)

	_, err = c.Evaluate(1000, expiry)
	var cerr *CouponError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, CouponExpired, cerr.Kind)
}

func TestCouponEvaluateUsageLimit(t *testing.T) {
	c := validCoupon()
	c.UsageLimit = ptrInt(5)
	c.UsedCount = 5

	_, err := c.Evaluate(1000, time.Now())
	var cerr *CouponError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, CouponLimitReached, cerr.Kind)

	c.UsedCount = 4
	_, err = c.Evaluate(1000, time.Now())
	assert.NoError(t, err)
}

func TestCouponEvaluateBelowMinimum(t *testing.T) {
	c := validCoupon()

	_, err := c.Evaluate(499.99, time.Now())
	var cerr *CouponError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, CouponBelowMinimum, cerr.Kind)
	assert.Equal(t, 500.0, cerr.Required)
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "SAVE20", NormalizeCouponCode("  save20 "))
	assert.Equal(t, "SAVE20", NormalizeCouponCode("Save20"))
}

func TestCouponCreateValidate(t *testing.T) {
	good := CouponCreate{Code: "X", DiscountPercentage: 10}
	assert.NoError(t, good.Validate())

	bad := good
	bad.Code = "  "
	assert.Error(t, bad.Validate())

	bad = good
	bad.DiscountPercentage = 0
	assert.Error(t, bad.Validate())

	bad = good
	bad.DiscountPercentage = 101
	assert.Error(t, bad.Validate())

	bad = good
	bad.UsageLimit = ptrInt(0)
	assert.Error(t, bad.Validate())
}
