package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CartItem is keyed by (ProductID, Size); price is the catalog price at add time.
type CartItem struct {
	ProductID bson.ObjectID `json:"productId" bson:"productId"`
	Size      string        `json:"size" bson:"size"`
	Price     float64       `json:"price" bson:"price"`
	Quantity  int           `json:"quantity" bson:"quantity"`
}

type Cart struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    bson.ObjectID `json:"userId" bson:"userId"`
	Items     []CartItem    `json:"items" bson:"items"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// AddToCartRequest is priced from the catalog; a client-sent price is
// accepted for compatibility and ignored.
type AddToCartRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Size      string  `json:"size" binding:"required"`
	Price     float64 `json:"price" binding:"omitempty,gte=0"`
	Quantity  int     `json:"quantity" binding:"omitempty,min=1"`
}

// IndexOf returns the position of the (productID, size) line or -1.
func (c *Cart) IndexOf(productID bson.ObjectID, size string) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.Size == size {
			return i
		}
	}
	return -1
}

// Upsert replaces the quantity and price of an existing line or appends a new one.
func (c *Cart) Upsert(item CartItem) {
	if i := c.IndexOf(item.ProductID, item.Size); i >= 0 {
		c.Items[i].Quantity = item.Quantity
		c.Items[i].Price = item.Price
	} else {
		c.Items = append(c.Items, item)
	}
	c.UpdatedAt = time.Now()
}

// Remove drops the line and reports whether it existed.
func (c *Cart) Remove(productID bson.ObjectID, size string) bool {
	i := c.IndexOf(productID, size)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.UpdatedAt = time.Now()
	return true
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Subtotal() float64 {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	f, _ := total.Round(2).Float64()
	return f
}

func (c *Cart) SetTimestamps() {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}
