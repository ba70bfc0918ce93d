package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// NormalizePaymentStatus upper-cases a client supplied status.
func NormalizePaymentStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

// Payment records one gateway transaction against an order. (Method, PaymentID)
// is unique.
type Payment struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Order     bson.ObjectID `json:"order" bson:"order"`
	User      bson.ObjectID `json:"user" bson:"user"`
	PaymentID string        `json:"paymentId" bson:"paymentId"`
	Method    string        `json:"method" bson:"method"`
	Amount    float64       `json:"amount" bson:"amount"`
	Currency  string        `json:"currency" bson:"currency"`
	Status    string        `json:"status" bson:"status"`
	PaidAt    time.Time     `json:"paidAt" bson:"paidAt"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

func (p *Payment) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// PayRequest is the body of the manual payment route.
type PayRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId" binding:"required"`
	Method    string `json:"method" binding:"required"`
	Status    string `json:"status"`
}
