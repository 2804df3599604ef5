package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Coupon struct {
	ID                 string    `bson:"id" json:"id"`
	Code               string    `bson:"code" json:"code"`
	DiscountPercentage int       `bson:"discount_percentage" json:"discount_percentage"`
	MaxDiscountAmount  *float64  `bson:"max_discount_amount,omitempty" json:"max_discount_amount,omitempty"`
	MinOrderAmount     float64   `bson:"min_order_amount" json:"min_order_amount"`
	ExpiryDate         Timestamp `bson:"expiry_date" json:"expiry_date"`
	IsActive           bool      `bson:"is_active" json:"is_active"`
	UsageLimit         *int      `bson:"usage_limit,omitempty" json:"usage_limit,omitempty"`
	UsedCount          int       `bson:"used_count" json:"used_count"`
	CreatedAt          Timestamp `bson:"created_at" json:"created_at"`
}

type CouponCreate struct {
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discount_percentage"`
	MaxDiscountAmount  *float64  `json:"max_discount_amount,omitempty"`
	MinOrderAmount     float64   `json:"min_order_amount"`
	ExpiryDate         Timestamp `json:"expiry_date"`
	IsActive           bool      `json:"is_active"`
	UsageLimit         *int      `json:"usage_limit,omitempty"`
}

func (c *CouponCreate) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return fmt.Errorf("code is required")
	}
	if c.DiscountPercentage < 1 || c.DiscountPercentage > 100 {
		return fmt.Errorf("discount_percentage must be within [1,100]")
	}
	if c.MinOrderAmount < 0 {
		return fmt.Errorf("min_order_amount must be non-negative")
	}
	if c.UsageLimit != nil && *c.UsageLimit < 1 {
		return fmt.Errorf("usage_limit must be positive when set")
	}
	return nil
}

// NewCoupon builds a Coupon with its code folded to upper case.
func NewCoupon(in CouponCreate) Coupon {
	return Coupon{
		ID:                 uuid.New().String(),
		Code:               NormalizeCouponCode(in.Code),
		DiscountPercentage: in.DiscountPercentage,
		MaxDiscountAmount:  in.MaxDiscountAmount,
		MinOrderAmount:     in.MinOrderAmount,
		ExpiryDate:         in.ExpiryDate,
		IsActive:           in.IsActive,
		UsageLimit:         in.UsageLimit,
		UsedCount:          0,
		CreatedAt:          Now(),
	}
}

// NormalizeCouponCode case-folds a code the way it is stored.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponErrorKind enumerates why a coupon did not apply.
type CouponErrorKind string

const (
	CouponUnknown      CouponErrorKind = "unknown"
	CouponInactive     CouponErrorKind = "inactive"
	CouponExpired      CouponErrorKind = "expired"
	CouponLimitReached CouponErrorKind = "limit_reached"
	CouponBelowMinimum CouponErrorKind = "below_minimum"
)

type CouponError struct {
	Kind     CouponErrorKind
	Required float64 // set for below_minimum
}

func (e *CouponError) Error() string {
	switch e.Kind {
	case CouponUnknown:
		return "invalid coupon code"
	case CouponInactive:
		return "coupon is not active"
	case CouponExpired:
		return "coupon has expired"
	case CouponLimitReached:
		return "coupon usage limit reached"
	case CouponBelowMinimum:
		return fmt.Sprintf("minimum order amount for this coupon is %.2f", e.Required)
	}
	return "coupon not applicable"
}

// Evaluation is the outcome of applying a coupon to an order amount.
type Evaluation struct {
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

// Evaluate checks the coupon against an order amount at the given instant
// and computes the discount. Evaluation never touches the usage counter; a
// coupon expiring at T is valid strictly before T (compared in UTC).
func (c *Coupon) Evaluate(orderAmount float64, now time.Time) (Evaluation, error) {
	if !c.IsActive {
		return Evaluation{}, &CouponError{Kind: CouponInactive}
	}
	if !now.UTC().Before(c.ExpiryDate.Time.UTC()) {
		return Evaluation{}, &CouponError{Kind: CouponExpired}
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return Evaluation{}, &CouponError{Kind: CouponLimitReached}
	}
	if orderAmount < c.MinOrderAmount {
		return Evaluation{}, &CouponError{Kind: CouponBelowMinimum, Required: c.MinOrderAmount}
	}

	discount := Floor2(orderAmount * float64(c.DiscountPercentage) / 100)
	if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
		discount = *c.MaxDiscountAmount
	}
	return Evaluation{
		DiscountAmount: discount,
		FinalAmount:    Round2(orderAmount - discount),
	}, nil
}

// Floor2 truncates to two decimals. Discounts round in the customer's
// disfavour never above the exact percentage.
func Floor2(x float64) float64 {
	return math.Floor(x*100) / 100
}

// Round2 rounds to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
