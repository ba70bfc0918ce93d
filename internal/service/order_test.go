package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/events"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func TestCreateOrderPricesOnServer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.order.Create(ctx, f.alice, &models.CreateOrderRequest{
		Name:    "Alice",
		Address: "Kochi",
		State:   "Kerala",
		Items: []models.OrderItemRequest{
			{Product: f.oil.ID.Hex(), Size: "1L", Price: 150, Quantity: 2},
			{Product: f.ghee.ID.Hex(), Size: "1kg", Price: 22, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusNew, order.Status)
	assert.Equal(t, f.alice.ID, order.User)
	assert.Equal(t, 322.0, order.Subtotal)
	assert.Equal(t, 60.0, order.DeliveryCharge)
	assert.Equal(t, 382.0, order.TotalPrice)
	assert.False(t, order.ID.IsZero())

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TotalPrice, stored.TotalPrice)
	assert.Equal(t, events.OrderCreated, f.events.Published()[0].Type)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := func(product, size string, price float64, qty int) []models.OrderItemRequest {
		return []models.OrderItemRequest{{Product: product, Size: size, Price: price, Quantity: qty}}
	}

	cases := []struct {
		name  string
		items []models.OrderItemRequest
		want  string
	}{
		{"empty", nil, "Cart Is Empty!"},
		{"unknown product", item(bson.NewObjectID().Hex(), "1L", 150, 1), "Invalid product in cart!"},
		{"malformed id", item("not-an-id", "1L", 150, 1), "Invalid product in cart!"},
		{"unknown size", item(f.oil.ID.Hex(), "5L", 150, 1), "Invalid size for product!"},
		{"price mismatch", item(f.oil.ID.Hex(), "1L", 149.99, 1), "Price mismatch!"},
		{"zero quantity", item(f.oil.ID.Hex(), "1L", 150, 0), "Invalid quantity for product!"},
		{"only blank products", item("", "1L", 150, 1), "No valid products in cart!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.order.Create(ctx, f.alice, &models.CreateOrderRequest{Name: "A", Address: "B", Items: tc.items})
			require.Error(t, err)
			assert.Equal(t, global.KindBadRequest, global.KindOf(err))
			assert.Contains(t, err.Error(), tc.want)
			assert.Equal(t, 0, f.orders.Count())
		})
	}
	assert.Empty(t, f.events.Published())
}

func TestDeliveryCharge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for state, want := range map[string]float64{"": 0, "Tamil Nadu": 0, "tamil nadu": 0, "Kerala": 60, "Goa": 0} {
		got, err := f.order.DeliveryCharge(ctx, state)
		require.NoError(t, err)
		assert.Equal(t, want, got, state)
	}
}

func TestCreateOrderAppliesCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.coupon.Create(ctx, &models.CouponRequest{CouponCode: "SAVE10", Description: "10% off", OfferPercentage: 10, Category: "common"})
	require.NoError(t, err)

	order, err := f.order.Create(ctx, f.alice, &models.CreateOrderRequest{
		Name: "Alice", Address: "Chennai", CouponCode: "SAVE10",
		Items: []models.OrderItemRequest{{Product: f.oil.ID.Hex(), Size: "1L", Price: 150, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", order.CouponCode)
	assert.Equal(t, 30.0, order.Discount)
	assert.Equal(t, 270.0, order.TotalPrice)
}

func TestCreateOrderRejectsIneligibleCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	yesterday := time.Now().Add(-24 * time.Hour)
	two := int64(2)
	require.NoError(t, f.coupons.Create(ctx, &models.Coupon{CouponCode: "OLD", OfferPercentage: 50, ExpiryDate: &yesterday}))
	require.NoError(t, f.coupons.Create(ctx, &models.Coupon{CouponCode: "LOYAL", OfferPercentage: 20, MinPurchaseCount: &two}))

	req := func(code string) *models.CreateOrderRequest {
		return &models.CreateOrderRequest{Name: "A", Address: "B", CouponCode: code,
			Items: []models.OrderItemRequest{{Product: f.oil.ID.Hex(), Size: "1L", Price: 150, Quantity: 1}}}
	}

	_, err := f.order.Create(ctx, f.alice, req("OLD"))
	assert.Contains(t, err.Error(), "expired")
	_, err = f.order.Create(ctx, f.alice, req("LOYAL"))
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))
	_, err = f.order.Create(ctx, f.alice, req("NOPE"))
	assert.Equal(t, global.KindNotFound, global.KindOf(err))

	orders, _ := f.orders.List(ctx, models.OrderFilter{})
	assert.Empty(t, orders)
}

func TestListScopesNonAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.placeOrder(t, f.alice)
	f.placeOrder(t, f.bob)
	f.placeOrder(t, f.bob)

	bobID := f.bob.ID
	mine, err := f.order.List(ctx, f.alice, models.OrderFilter{User: &bobID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.alice.ID, mine[0].User)

	all, err := f.order.List(ctx, f.admin, models.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bobs, err := f.order.List(ctx, f.admin, models.OrderFilter{User: &bobID, Status: models.OrderStatusNew})
	require.NoError(t, err)
	assert.Len(t, bobs, 2)

	_, err = f.order.List(ctx, f.admin, models.OrderFilter{Status: "LOST"})
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))
}

func TestGetOrderOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t, f.alice)

	_, err := f.order.Get(ctx, f.bob, order.ID.Hex())
	assert.Equal(t, global.KindUnauthorized, global.KindOf(err))

	got, err := f.order.Get(ctx, f.admin, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.order.Get(ctx, f.alice, bson.NewObjectID().Hex())
	assert.Equal(t, global.KindNotFound, global.KindOf(err))
}

func TestCurrentNewAndStatusUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.order.CurrentNew(ctx, f.alice)
	assert.Equal(t, global.KindNotFound, global.KindOf(err))

	f.placeOrder(t, f.alice)
	latest := f.placeOrder(t, f.alice)
	current, err := f.order.CurrentNew(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, current.ID)

	_, err = f.order.UpdateStatus(ctx, latest.ID.Hex(), "teleported")
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))

	shipped, err := f.order.UpdateStatus(ctx, latest.ID.Hex(), "shipped")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)

	require.NoError(t, f.order.Delete(ctx, latest.ID.Hex()))
	_, err = f.orders.GetByID(ctx, latest.ID)
	assert.True(t, global.IsNotFound(err))
}
