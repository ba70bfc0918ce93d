package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	OrderStatusNew       = "NEW"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPayed     = "PAYED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCanceled  = "CANCELED"
	OrderStatusRefunded  = "REFUNDED"
	OrderStatusFailed    = "FAILED"
)

// OrderStatuses is the order status enumeration in lifecycle order.
var OrderStatuses = []string{
	OrderStatusNew,
	OrderStatusConfirmed,
	OrderStatusPayed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
	OrderStatusRefunded,
	OrderStatusFailed,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type LatLng struct {
	Lat string `json:"lat" bson:"lat"`
	Lng string `json:"lng" bson:"lng"`
}

type OrderItem struct {
	Product  bson.ObjectID `json:"product" bson:"product"`
	Size     string        `json:"size" bson:"size"`
	Price    float64       `json:"price" bson:"price"`
	Quantity int           `json:"quantity" bson:"quantity"`
}

type Order struct {
	ID             bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string        `json:"name" bson:"name"`
	Address        string        `json:"address" bson:"address"`
	State          string        `json:"state,omitempty" bson:"state,omitempty"`
	AddressLatLng  LatLng        `json:"addressLatLng" bson:"addressLatLng"`
	PaymentID      string        `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	Items          []OrderItem   `json:"items" bson:"items"`
	Subtotal       float64       `json:"subtotal" bson:"subtotal"`
	CouponCode     string        `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	Discount       float64       `json:"discount" bson:"discount"`
	DeliveryCharge float64       `json:"deliveryCharge" bson:"deliveryCharge"`
	TotalPrice     float64       `json:"totalPrice" bson:"totalPrice"`
	Status         string        `json:"status" bson:"status"`
	GatewayOrders  []GatewayRef  `json:"gatewayOrders,omitempty" bson:"gatewayOrders,omitempty"`
	User           bson.ObjectID `json:"user" bson:"user"`
	CreatedAt      time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// GatewayRef is a checkout opened with a payment gateway for an order.
type GatewayRef struct {
	Gateway string `json:"gateway" bson:"gateway"`
	OrderID string `json:"orderId" bson:"orderId"`
}

type OrderItemRequest struct {
	Product  string  `json:"product"`
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CreateOrderRequest is the checkout body. Totals are always recomputed
// server-side, so none are accepted here.
type CreateOrderRequest struct {
	Name          string             `json:"name" binding:"required"`
	Address       string             `json:"address" binding:"required"`
	State         string             `json:"state"`
	AddressLatLng LatLng             `json:"addressLatLng"`
	Items         []OrderItemRequest `json:"items"`
	CouponCode    string             `json:"couponCode"`
}

// OrderFilter narrows order listings. Zero values mean "any".
type OrderFilter struct {
	User   *bson.ObjectID
	Status string
	From   *time.Time
	To     *time.Time
}

// CalculateTotals sets Subtotal, Discount and TotalPrice from Items, the
// coupon percentage and DeliveryCharge, rounding each to two decimals.
func (o *Order) CalculateTotals(offerPercentage float64) {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	discount := subtotal.Mul(decimal.NewFromFloat(offerPercentage)).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Sub(discount).Add(decimal.NewFromFloat(o.DeliveryCharge)).Round(2)

	o.Subtotal, _ = subtotal.Round(2).Float64()
	o.Discount, _ = discount.Float64()
	o.TotalPrice, _ = total.Float64()
}

func (o *Order) IsOwnedBy(userID bson.ObjectID) bool {
	return o.User == userID
}

func (o *Order) IsAwaitingPayment() bool {
	return o.Status == OrderStatusNew
}

func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPayed
}

// HasGatewayOrder reports whether gatewayOrderID was opened for this order.
func (o *Order) HasGatewayOrder(gateway, gatewayOrderID string) bool {
	if gatewayOrderID == "" {
		return false
	}
	for _, ref := range o.GatewayOrders {
		if strings.EqualFold(ref.Gateway, gateway) && ref.OrderID == gatewayOrderID {
			return true
		}
	}
	return false
}

func (o *Order) SetTimestamps() {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

// DeliveryCharge is the flat charge for shipping from one state to another.
type DeliveryCharge struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	FromState string        `json:"fromState" bson:"fromState" binding:"required"`
	ToState   string        `json:"toState" bson:"toState" binding:"required"`
	Charge    float64       `json:"charge" bson:"charge" binding:"gte=0"`
}

// RevenuePoint is one day of the revenue trend.
type RevenuePoint struct {
	Date         string  `json:"date" bson:"_id"`
	TotalRevenue float64 `json:"totalRevenue" bson:"totalRevenue"`
	Count        int64   `json:"count" bson:"count"`
}

// TopProduct is a best seller by quantity with its catalog entry.
type TopProduct struct {
	ProductID bson.ObjectID `json:"productId" bson:"_id"`
	TotalSold int64         `json:"totalSold" bson:"totalSold"`
	Product   *Product      `json:"product,omitempty" bson:"product,omitempty"`
}
