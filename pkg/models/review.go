package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MaxReviewsPerProduct caps reviews by one customer on one product.
const MaxReviewsPerProduct = 3

type Reply struct {
	ID        bson.ObjectID `json:"id" bson:"_id"`
	Text      string        `json:"text" bson:"text"`
	RepliedBy bson.ObjectID `json:"repliedBy" bson:"repliedBy"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

// Review represents a customer review for a product
type Review struct {
	ID         bson.ObjectID `json:"id" bson:"_id,omitempty"`
	CustomerID bson.ObjectID `json:"customerId" bson:"CustomerId"`
	ProductID  bson.ObjectID `json:"productId" bson:"productId"`
	Review     string        `json:"review" bson:"review"`
	Rating     int           `json:"rating" bson:"rating"`
	Images     []string      `json:"images" bson:"images"`
	Replies    []Reply       `json:"replies" bson:"replies"`
	CreatedAt  time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// SetTimestamps sets createdAt and updatedAt timestamps
func (r *Review) SetTimestamps() {
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

// IsPositive checks if the review is positive (4-5 stars)
func (r *Review) IsPositive() bool {
	return r.Rating >= 4
}

// IsNegative checks if the review is negative (1-2 stars)
func (r *Review) IsNegative() bool {
	return r.Rating <= 2
}

func (r *Review) FindReply(replyID bson.ObjectID) *Reply {
	for i := range r.Replies {
		if r.Replies[i].ID == replyID {
			return &r.Replies[i]
		}
	}
	return nil
}

type ReviewRequest struct {
	ProductID string   `json:"productId" binding:"required"`
	Review    string   `json:"review" binding:"required"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Images    []string `json:"images"`
}

type ReplyRequest struct {
	Text string `json:"text" binding:"required"`
}

// ReviewFilter narrows review listings. Zero values mean "any".
type ReviewFilter struct {
	ProductIDs []bson.ObjectID
	From       *time.Time
	To         *time.Time
	Limit      int64
}

// ProductRating is the per-product aggregate returned by average-ratings.
type ProductRating struct {
	ProductID bson.ObjectID `json:"productId" bson:"_id"`
	AvgRating float64       `json:"avgRating" bson:"avgRating"`
	Count     int64         `json:"count" bson:"count"`
}

type RatingCount struct {
	Rating int   `json:"rating" bson:"_id"`
	Count  int64 `json:"count" bson:"count"`
}

type RatingSummary struct {
	Average      float64       `json:"average"`
	Count        int64         `json:"count"`
	Distribution []RatingCount `json:"distribution"`
}
