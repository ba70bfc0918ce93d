package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func TestCatalogGetUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, hit, err := f.catalog.Get(ctx, "OIL-GN-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, f.oil.ID, product.ID)

	_, hit, err = f.catalog.Get(ctx, "OIL-GN-1")
	require.NoError(t, err)
	assert.True(t, hit)

	_, _, err = f.catalog.Get(ctx, "MISSING")
	assert.True(t, global.IsNotFound(err))
}

func TestCatalogCreateUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	discount := 5.0

	created, err := f.catalog.Create(ctx, &models.ProductRequest{
		ProductID: "HONEY-1", Name: "Forest Honey", Category: "honey",
		Quantities: []models.SizePrice{{Size: "250g", Price: 199}}, Discount: &discount,
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, created.Discount)

	_, err = f.catalog.Create(ctx, &models.ProductRequest{ProductID: "HONEY-1", Name: "Dup", Category: "honey"})
	assert.Equal(t, global.KindConflict, global.KindOf(err))

	updated, err := f.catalog.Update(ctx, &models.ProductRequest{
		ID: created.ID.Hex(), ProductID: "HONEY-2", Name: "Wild Honey", Category: "honey",
		Quantities: []models.SizePrice{{Size: "250g", Price: 210}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Discount)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, hit, err := f.catalog.Get(ctx, "HONEY-2")
	require.NoError(t, err)
	assert.True(t, hit)
	_, _, err = f.catalog.Get(ctx, "HONEY-1")
	assert.True(t, global.IsNotFound(err))

	_, err = f.catalog.Delete(ctx, created.ID.Hex())
	require.NoError(t, err)
	_, _, err = f.catalog.Get(ctx, "HONEY-2")
	assert.True(t, global.IsNotFound(err))

	_, err = f.catalog.Delete(ctx, bson.NewObjectID().Hex())
	assert.True(t, global.IsNotFound(err))
	_, err = f.catalog.Delete(ctx, "zzz")
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))
}

func TestCatalogSearchAndCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	found, err := f.catalog.Search(ctx, "groundnut")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "OIL-GN-1", found[0].ProductID)

	found, err = f.catalog.Search(ctx, "(")
	require.NoError(t, err)
	assert.Empty(t, found)

	byCat, err := f.catalog.ByCategory(ctx, "ghee")
	require.NoError(t, err)
	assert.Len(t, byCat, 1)
}

func TestCartLastWriteWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.alice.ID
	add := func(size string, qty int) (*models.Cart, error) {
		return f.cart.Add(ctx, user, &models.AddToCartRequest{ProductID: f.ghee.ID.Hex(), Size: size, Price: 22, Quantity: qty})
	}

	empty, err := f.cart.Get(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	_, err = add("1kg", 2)
	require.NoError(t, err)
	cart, err := add("1kg", 5)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 22.0, cart.Items[0].Price)

	_, err = add("2kg", 1)
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))

	cart, err = f.cart.Remove(ctx, user, f.ghee.ID.Hex(), "1kg")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	_, err = f.carts.Get(ctx, user)
	assert.True(t, global.IsNotFound(err))

	_, err = f.cart.Remove(ctx, user, f.ghee.ID.Hex(), "1kg")
	assert.True(t, global.IsNotFound(err))
	assert.NoError(t, f.cart.Clear(ctx, user))
}

func TestCartDefaultsQuantity(t *testing.T) {
	f := newFixture(t)
	cart, err := f.cart.Add(context.Background(), f.alice.ID, &models.AddToCartRequest{ProductID: f.oil.ID.Hex(), Size: "500ml", Price: 80})
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, 80.0, cart.Items[0].Price)
}

func TestCouponEvaluate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	minAmount := 500.0
	one := int64(1)
	_, err := f.coupon.Create(ctx, &models.CouponRequest{
		CouponCode: "BIG", Description: "big baskets", OfferPercentage: 15, Category: "group",
		MinPurchaseAmount: &minAmount, MinPurchaseCount: &one,
	})
	require.NoError(t, err)

	_, err = f.coupon.Evaluate(ctx, "BIG", 499, f.alice.ID)
	assert.Contains(t, err.Error(), "Minimum purchase amount")

	_, err = f.coupon.Evaluate(ctx, "BIG", 600, f.alice.ID)
	assert.Contains(t, err.Error(), "completed orders")

	order := f.placeOrder(t, f.alice)
	_, err = f.payment.Confirm(ctx, f.alice, order.ID.Hex(), completed("pay_1"))
	require.NoError(t, err)

	eval, err := f.coupon.Evaluate(ctx, "BIG", 600, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, eval.Discount)

	_, err = f.coupon.Create(ctx, &models.CouponRequest{CouponCode: "BIG", Description: "again", Category: "common"})
	assert.Equal(t, global.KindConflict, global.KindOf(err))

	updated, err := f.coupon.Update(ctx, eval.Coupon.ID.Hex(), &models.CouponRequest{CouponCode: "BIG", Description: "now 20", OfferPercentage: 20, Category: "group"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.OfferPercentage)

	require.NoError(t, f.coupon.Delete(ctx, eval.Coupon.ID.Hex()))
	_, err = f.coupon.Get(ctx, "BIG")
	assert.True(t, global.IsNotFound(err))
}
