package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPriceForSizeUsesFirstMatch(t *testing.T) {
	p := &Product{Quantities: []SizePrice{{"500ml", 220}, {"1L", 420}, {"500ml", 999}}}

	price, ok := p.PriceForSize("500ml")
	assert.True(t, ok)
	assert.Equal(t, 220.0, price)

	_, ok = p.PriceForSize("2L")
	assert.False(t, ok)
}

func TestCartUpsertSetsQuantity(t *testing.T) {
	id := bson.NewObjectID()
	cart := &Cart{}
	cart.Upsert(CartItem{ProductID: id, Size: "1kg", Price: 22, Quantity: 2})
	cart.Upsert(CartItem{ProductID: id, Size: "1kg", Price: 22, Quantity: 5})
	cart.Upsert(CartItem{ProductID: id, Size: "500g", Price: 12, Quantity: 1})

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 122.0, cart.Subtotal())

	assert.True(t, cart.Remove(id, "1kg"))
	assert.False(t, cart.Remove(id, "1kg"))
	assert.Len(t, cart.Items, 1)
}

func TestOrderCalculateTotals(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Price: 100.10, Quantity: 3},
			{Price: 49.99, Quantity: 1},
		},
		DeliveryCharge: 40,
	}
	order.CalculateTotals(10)

	assert.Equal(t, 350.29, order.Subtotal)
	assert.Equal(t, 35.03, order.Discount)
	assert.Equal(t, 355.26, order.TotalPrice)
}

func TestCouponPredicates(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	minAmount := 500.0
	minCount := int64(2)
	c := &Coupon{ExpiryDate: &past, MinPurchaseAmount: &minAmount, MinPurchaseCount: &minCount}

	assert.True(t, c.IsExpired(now))
	assert.False(t, c.MeetsMinimumAmount(499.99))
	assert.True(t, c.MeetsMinimumAmount(500))
	assert.False(t, c.MeetsMinimumCount(1))
	assert.True(t, (&Coupon{}).MeetsMinimumCount(0))
}

func TestStatusEnumerations(t *testing.T) {
	assert.True(t, IsValidOrderStatus("SHIPPED"))
	assert.False(t, IsValidOrderStatus("shipped"))
	assert.True(t, IsValidPaymentStatus(NormalizePaymentStatus(" completed ")))
	assert.False(t, IsValidPaymentStatus("DONE"))
}
