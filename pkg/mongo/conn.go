package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Connect opens a client with the stable server API and pings it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)

	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// Stores bundles every collection-backed store over one database.
type Stores struct {
	Products        *ProductStore
	Carts           *CartStore
	Orders          *OrderStore
	Payments        *PaymentStore
	DeliveryCharges *DeliveryChargeStore
	Coupons         *CouponStore
	Reviews         *ReviewStore
	Users           *UserStore
	Wishlists       *WishlistStore
	Recipes         *RecipeStore
	Analytics       *AnalyticsStore
}

func NewStores(db *mongo.Database) *Stores {
	return &Stores{
		Products:        &ProductStore{coll: db.Collection(productsCollection)},
		Carts:           &CartStore{coll: db.Collection(cartsCollection)},
		Orders:          &OrderStore{coll: db.Collection(ordersCollection)},
		Payments:        &PaymentStore{coll: db.Collection(paymentsCollection)},
		DeliveryCharges: &DeliveryChargeStore{coll: db.Collection(deliveryChargesCollection)},
		Coupons:         &CouponStore{coll: db.Collection(couponsCollection)},
		Reviews:         &ReviewStore{coll: db.Collection(reviewsCollection)},
		Users:           &UserStore{coll: db.Collection(usersCollection)},
		Wishlists:       &WishlistStore{coll: db.Collection(wishlistsCollection)},
		Recipes:         &RecipeStore{coll: db.Collection(recipesCollection)},
		Analytics:       &AnalyticsStore{orders: db.Collection(ordersCollection)},
	}
}
