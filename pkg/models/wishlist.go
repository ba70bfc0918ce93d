package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// WishlistItem marks a product as wished for by one user; (UserID, ProductID) is unique.
type WishlistItem struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    bson.ObjectID `json:"userId" bson:"userId"`
	ProductID bson.ObjectID `json:"productId" bson:"productId"`
	Whishlist bool          `json:"whishlist" bson:"whishlist"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

type WishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}
