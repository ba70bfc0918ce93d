package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

type CouponService struct {
	coupons CouponStore
	orders  OrderStore
	now     func() time.Time
}

func NewCouponService(coupons CouponStore, orders OrderStore) *CouponService {
	return &CouponService{coupons: coupons, orders: orders, now: time.Now}
}

// Evaluate checks code against the subtotal and the user's paid order count
// and returns the discount it grants.
func (s *CouponService) Evaluate(ctx context.Context, code string, subtotal float64, userID bson.ObjectID) (*models.CouponEvaluation, error) {
	coupon, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon.IsExpired(s.now()) {
		return nil, global.BadRequest("Coupon has expired").WithField("couponCode", "expired")
	}
	if !coupon.MeetsMinimumAmount(subtotal) {
		return nil, global.BadRequest(fmt.Sprintf("Minimum purchase amount of %.2f required for this coupon", *coupon.MinPurchaseAmount)).
			WithField("couponCode", "min_purchase_amount")
	}
	if coupon.MinPurchaseCount != nil {
		paid, err := s.orders.CountByStatus(ctx, userID, models.OrderStatusPayed)
		if err != nil {
			return nil, err
		}
		if !coupon.MeetsMinimumCount(paid) {
			return nil, global.BadRequest(fmt.Sprintf("This coupon requires at least %d completed orders", *coupon.MinPurchaseCount)).
				WithField("couponCode", "min_purchase_count")
		}
	}
	return &models.CouponEvaluation{Coupon: coupon, Discount: coupon.DiscountFor(subtotal)}, nil
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *CouponService) Get(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.coupons.GetByCode(ctx, strings.TrimSpace(code))
	if global.IsNotFound(err) {
		return nil, global.NotFound("Coupon not found").WithField("couponCode", "not_found")
	}
	return coupon, err
}

func (s *CouponService) Create(ctx context.Context, req *models.CouponRequest) (*models.Coupon, error) {
	coupon := req.ToCoupon()
	if err := s.coupons.Create(ctx, coupon); err != nil {
		if global.IsConflict(err) {
			return nil, global.Conflict("Coupon code already exists").WithField("couponCode", "duplicate")
		}
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) Update(ctx context.Context, id string, req *models.CouponRequest) (*models.Coupon, error) {
	oid, err := parseID(id, "Invalid coupon id")
	if err != nil {
		return nil, err
	}
	updated, err := s.coupons.Update(ctx, oid, req.ToCoupon())
	if global.IsConflict(err) {
		return nil, global.Conflict("Coupon code already exists").WithField("couponCode", "duplicate")
	}
	return updated, err
}

func (s *CouponService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "Invalid coupon id")
	if err != nil {
		return err
	}
	return s.coupons.Delete(ctx, oid)
}
