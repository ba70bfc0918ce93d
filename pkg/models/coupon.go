package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	CouponCategoryCommon     = "common"
	CouponCategoryGroup      = "group"
	CouponCategoryIndividual = "individual"
)

type Coupon struct {
	ID                bson.ObjectID `json:"id" bson:"_id,omitempty"`
	CouponCode        string        `json:"couponCode" bson:"couponCode"`
	Description       string        `json:"description" bson:"description"`
	OfferPercentage   float64       `json:"offerPercentage" bson:"offerPercentage"`
	Category          string        `json:"category" bson:"category"`
	MinPurchaseAmount *float64      `json:"minPurchaseAmount,omitempty" bson:"minPurchaseAmount,omitempty"`
	MinPurchaseCount  *int64        `json:"minPurchaseCount,omitempty" bson:"minPurchaseCount,omitempty"`
	ExpiryDate        *time.Time    `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	CreatedAt         time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// IsExpired reports whether the expiry date lies strictly before now.
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

func (c *Coupon) MeetsMinimumAmount(subtotal float64) bool {
	return c.MinPurchaseAmount == nil || *c.MinPurchaseAmount <= subtotal
}

func (c *Coupon) MeetsMinimumCount(paidOrders int64) bool {
	return c.MinPurchaseCount == nil || *c.MinPurchaseCount <= paidOrders
}

// DiscountFor is OfferPercentage of subtotal rounded to two decimals.
func (c *Coupon) DiscountFor(subtotal float64) float64 {
	d, _ := decimal.NewFromFloat(subtotal).
		Mul(decimal.NewFromFloat(c.OfferPercentage)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return d
}

func (c *Coupon) SetTimestamps() {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

type CouponRequest struct {
	CouponCode        string     `json:"couponCode" binding:"required"`
	Description       string     `json:"description" binding:"required"`
	OfferPercentage   float64    `json:"offerPercentage" binding:"gte=0,lte=100"`
	Category          string     `json:"category" binding:"required,oneof=common group individual"`
	MinPurchaseAmount *float64   `json:"minPurchaseAmount" binding:"omitempty,gte=0"`
	MinPurchaseCount  *int64     `json:"minPurchaseCount" binding:"omitempty,gte=0"`
	ExpiryDate        *time.Time `json:"expiryDate"`
}

func (req *CouponRequest) ToCoupon() *Coupon {
	coupon := &Coupon{
		CouponCode:        req.CouponCode,
		Description:       req.Description,
		OfferPercentage:   req.OfferPercentage,
		Category:          req.Category,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MinPurchaseCount:  req.MinPurchaseCount,
		ExpiryDate:        req.ExpiryDate,
	}
	coupon.SetTimestamps()
	return coupon
}

type ValidateCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"gte=0"`
}

// CouponEvaluation is the outcome of applying a coupon to a subtotal.
type CouponEvaluation struct {
	Coupon   *Coupon `json:"coupon"`
	Discount float64 `json:"discount"`
}
