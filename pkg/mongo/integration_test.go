//go:build integration

package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

// Run with: MONGODB_TEST_URI=mongodb://localhost:27017 go test -tags integration ./pkg/mongo
func newIntegrationStores(t *testing.T) *Stores {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := Connect(ctx, uri)
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("storefront_test_%d", time.Now().UnixNano()))
	require.NoError(t, EnsureIndexes(ctx, db))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return NewStores(db)
}

func TestCartStoreUpsertAndRemove(t *testing.T) {
	stores := newIntegrationStores(t)
	ctx := context.Background()
	user, oil := bson.NewObjectID(), bson.NewObjectID()

	cart, err := stores.Carts.UpsertItem(ctx, user, models.CartItem{ProductID: oil, Size: "1L", Price: 150, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.False(t, cart.CreatedAt.IsZero())

	cart, err = stores.Carts.UpsertItem(ctx, user, models.CartItem{ProductID: oil, Size: "1L", Price: 150, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	cart, err = stores.Carts.UpsertItem(ctx, user, models.CartItem{ProductID: oil, Size: "500ml", Price: 80, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.InDelta(t, 610, cart.Subtotal(), 0.001)

	cart, err = stores.Carts.RemoveItem(ctx, user, oil, "1L")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "500ml", cart.Items[0].Size)

	_, err = stores.Carts.RemoveItem(ctx, user, oil, "1L")
	assert.True(t, global.IsNotFound(err))

	cart, err = stores.Carts.RemoveItem(ctx, user, oil, "500ml")
	require.NoError(t, err)
	assert.Nil(t, cart)

	_, err = stores.Carts.Get(ctx, user)
	assert.True(t, global.IsNotFound(err))
}

func TestOrderStorePaymentGuards(t *testing.T) {
	stores := newIntegrationStores(t)
	ctx := context.Background()

	order := &models.Order{Name: "Alice", Address: "12 Temple Street", TotalPrice: 300, Status: models.OrderStatusNew, User: bson.NewObjectID()}
	order.SetTimestamps()
	require.NoError(t, stores.Orders.Create(ctx, order))

	ref := models.GatewayRef{Gateway: "razorpay", OrderID: "order_1"}
	_, err := stores.Orders.AddGatewayOrder(ctx, order.ID, ref)
	require.NoError(t, err)
	updated, err := stores.Orders.AddGatewayOrder(ctx, order.ID, ref)
	require.NoError(t, err)
	assert.Len(t, updated.GatewayOrders, 1)
	assert.True(t, updated.HasGatewayOrder("razorpay", "order_1"))

	paid, err := stores.Orders.MarkPaid(ctx, order.ID, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPayed, paid.Status)
	assert.Equal(t, "pay_1", paid.PaymentID)

	_, err = stores.Orders.MarkPaid(ctx, order.ID, "pay_2")
	assert.True(t, global.IsConflict(err))
	_, err = stores.Orders.AddGatewayOrder(ctx, order.ID, models.GatewayRef{Gateway: "razorpay", OrderID: "order_2"})
	assert.True(t, global.IsConflict(err))
	_, err = stores.Orders.MarkPaid(ctx, bson.NewObjectID(), "pay_3")
	assert.True(t, global.IsNotFound(err))

	_, err = stores.Orders.UpdateStatus(ctx, order.ID, models.OrderStatusFailed)
	require.NoError(t, err)
	settled, err := stores.Orders.SettlePaid(ctx, order.ID, "pay_manual")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPayed, settled.Status)
	assert.Equal(t, "pay_manual", settled.PaymentID)

	_, err = stores.Orders.SettlePaid(ctx, order.ID, "pay_again")
	assert.True(t, global.IsConflict(err))
}

func TestReviewStoreRatingAggregates(t *testing.T) {
	stores := newIntegrationStores(t)
	ctx := context.Background()
	oil, ghee := bson.NewObjectID(), bson.NewObjectID()

	for _, r := range []struct {
		product bson.ObjectID
		rating  int
	}{{oil, 5}, {oil, 4}, {oil, 5}, {ghee, 2}} {
		review := &models.Review{CustomerID: bson.NewObjectID(), ProductID: r.product, Rating: r.rating, Review: "ok"}
		review.SetTimestamps()
		require.NoError(t, stores.Reviews.Create(ctx, review))
	}

	rating, err := stores.Reviews.ProductRating(ctx, oil)
	require.NoError(t, err)
	assert.Equal(t, oil, rating.ProductID)
	assert.Equal(t, int64(3), rating.Count)
	assert.InDelta(t, 14.0/3.0, rating.AvgRating, 0.0001)

	dist, err := stores.Reviews.Distribution(ctx, oil)
	require.NoError(t, err)
	assert.Equal(t, []models.RatingCount{{Rating: 5, Count: 2}, {Rating: 4, Count: 1}}, dist)

	all, err := stores.Reviews.AverageRatings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = stores.Reviews.ProductRating(ctx, bson.NewObjectID())
	assert.True(t, global.IsNotFound(err))
}
