package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"isvaryam.com/storefront/pkg/global"
)

const (
	productsCollection        = "products"
	cartsCollection           = "carts"
	ordersCollection          = "orders"
	paymentsCollection        = "payments"
	deliveryChargesCollection = "deliverycharges"
	couponsCollection         = "coupons"
	reviewsCollection         = "reviews"
	usersCollection           = "users"
	wishlistsCollection       = "wishlists"
	recipesCollection         = "recipes"
)

// translateError maps driver errors onto application errors. notFound is the
// message used when no document matched.
func translateError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return global.NotFound(notFound)
	case mongo.IsDuplicateKeyError(err):
		return &global.Error{Kind: global.KindConflict, Message: "Duplicate key", Err: err}
	default:
		return err
	}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline bson.A) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, notFound string, opts ...options.Lister[options.FindOneOptions]) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return nil, translateError(err, notFound)
	}
	return &doc, nil
}

// returnAfter is used by every FindOneAndUpdate that hands the document back.
func returnAfter() *options.FindOneAndUpdateOptionsBuilder {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func updateOne[T any](ctx context.Context, coll *mongo.Collection, filter, update any, notFound string, opts ...options.Lister[options.FindOneAndUpdateOptions]) (*T, error) {
	if len(opts) == 0 {
		opts = append(opts, returnAfter())
	}
	var doc T
	if err := coll.FindOneAndUpdate(ctx, filter, update, opts...).Decode(&doc); err != nil {
		return nil, translateError(err, notFound)
	}
	return &doc, nil
}

// dateRange builds a {$gte, $lte} clause, or nil when both bounds are open.
func dateRange(from, to *time.Time) bson.D {
	var clause bson.D
	if from != nil {
		clause = append(clause, bson.E{Key: "$gte", Value: *from})
	}
	if to != nil {
		clause = append(clause, bson.E{Key: "$lte", Value: *to})
	}
	return clause
}

func byID(id bson.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
