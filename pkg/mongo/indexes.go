package mongo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type IndexConfig struct {
	CollectionName string
	IndexModel     mongo.IndexModel
}

var requiredIndexes = []IndexConfig{
	// Users
	{
		CollectionName: usersCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email_unique"),
		},
	},

	// Products
	{
		CollectionName: productsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "productId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_product_id_unique"),
		},
	},
	{
		CollectionName: productsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
	},

	// Carts: one per user, which the upsert in CartStore relies on
	{
		CollectionName: cartsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_cart_user_unique"),
		},
	},

	// Orders
	{
		CollectionName: ordersCollection,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "user", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_user_orders"),
		},
	},
	{
		CollectionName: ordersCollection,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("idx_analytics"),
		},
	},

	// Payments: a gateway payment id is recorded once
	{
		CollectionName: paymentsCollection,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "method", Value: 1},
				{Key: "paymentId", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_payment_gateway_unique"),
		},
	},

	// Coupons
	{
		CollectionName: couponsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "couponCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_coupon_code_unique"),
		},
	},

	// Reviews
	{
		CollectionName: reviewsCollection,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "productId", Value: 1},
				{Key: "CustomerId", Value: 1},
			},
			Options: options.Index().SetName("idx_product_reviews"),
		},
	},
	{
		CollectionName: reviewsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_recent_reviews"),
		},
	},

	// Wishlists
	{
		CollectionName: wishlistsCollection,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "productId", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_wishlist_unique"),
		},
	},

	// Delivery charges
	{
		CollectionName: deliveryChargesCollection,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "fromState", Value: 1},
				{Key: "toState", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_delivery_route_unique"),
		},
	},
}

// EnsureIndexes creates every index in requiredIndexes. CreateOne is a no-op
// for an index that already exists with the same definition.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	log.Info().Int("count", len(requiredIndexes)).Msg("ensuring indexes")

	for _, idxConfig := range requiredIndexes {
		collection := db.Collection(idxConfig.CollectionName)

		indexName, err := collection.Indexes().CreateOne(ctx, idxConfig.IndexModel)
		if err != nil {
			return fmt.Errorf("creating index on %s: %w", idxConfig.CollectionName, err)
		}

		log.Debug().Str("collection", idxConfig.CollectionName).Str("index", indexName).Msg("index ready")
	}
	return nil
}
