package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

const productNotFound = "Product not found"

type ProductStore struct {
	coll *mongo.Collection
}

var catalogOrder = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.coll, bson.D{}, catalogOrder)
}

func (s *ProductStore) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.coll, bson.D{{Key: "category", Value: category}}, catalogOrder)
}

// Search matches the term as a literal, case-insensitive substring of the name.
func (s *ProductStore) Search(ctx context.Context, term string) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.coll, nameSearchFilter(term), catalogOrder)
}

func nameSearchFilter(term string) bson.D {
	return bson.D{{Key: "name", Value: bson.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}}
}

func (s *ProductStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	return findOne[models.Product](ctx, s.coll, byID(id), productNotFound)
}

func (s *ProductStore) GetByProductID(ctx context.Context, productID string) (*models.Product, error) {
	return findOne[models.Product](ctx, s.coll, bson.D{{Key: "productId", Value: productID}}, productNotFound)
}

func (s *ProductStore) IDsByCategory(ctx context.Context, category string) ([]bson.ObjectID, error) {
	type idOnly struct {
		ID bson.ObjectID `bson:"_id"`
	}
	docs, err := findAll[idOnly](ctx, s.coll, bson.D{{Key: "category", Value: category}},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	ids := make([]bson.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = bson.NewObjectID()
	}
	product.SetTimestamps()
	_, err := s.coll.InsertOne(ctx, product)
	return translateError(err, productNotFound)
}

func (s *ProductStore) Replace(ctx context.Context, product *models.Product) error {
	product.SetTimestamps()
	result, err := s.coll.ReplaceOne(ctx, byID(product.ID), product)
	if err != nil {
		return translateError(err, productNotFound)
	}
	if result.MatchedCount == 0 {
		return global.NotFound(productNotFound)
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := s.coll.FindOneAndDelete(ctx, byID(id)).Decode(&product); err != nil {
		return nil, translateError(err, productNotFound)
	}
	return &product, nil
}

type CartStore struct {
	coll *mongo.Collection
}

func lineMatch(productID bson.ObjectID, size string) bson.D {
	return bson.D{{Key: "productId", Value: productID}, {Key: "size", Value: size}}
}

func (s *CartStore) Get(ctx context.Context, userID bson.ObjectID) (*models.Cart, error) {
	return findOne[models.Cart](ctx, s.coll, bson.D{{Key: "userId", Value: userID}}, "Cart not found")
}

// UpsertItem sets the line for (productId, size) in one round trip when it
// exists, otherwise pushes it, creating the cart if needed. A duplicate key on
// the push means a concurrent request created the cart first, so it retries.
func (s *CartStore) UpsertItem(ctx context.Context, userID bson.ObjectID, item models.CartItem) (*models.Cart, error) {
	for attempt := 0; ; attempt++ {
		cart, err := s.setExistingLine(ctx, userID, item)
		if err == nil || !global.IsNotFound(err) {
			return cart, err
		}

		cart, err = s.pushLine(ctx, userID, item)
		if global.IsConflict(err) && attempt == 0 {
			continue
		}
		return cart, err
	}
}

func (s *CartStore) setExistingLine(ctx context.Context, userID bson.ObjectID, item models.CartItem) (*models.Cart, error) {
	filter := bson.D{
		{Key: "userId", Value: userID},
		{Key: "items", Value: bson.D{{Key: "$elemMatch", Value: lineMatch(item.ProductID, item.Size)}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "items.$.price", Value: item.Price},
		{Key: "items.$.quantity", Value: item.Quantity},
		{Key: "updatedAt", Value: time.Now()},
	}}}
	return updateOne[models.Cart](ctx, s.coll, filter, update, "Cart not found")
}

func (s *CartStore) pushLine(ctx context.Context, userID bson.ObjectID, item models.CartItem) (*models.Cart, error) {
	now := time.Now()
	filter := bson.D{
		{Key: "userId", Value: userID},
		{Key: "items", Value: bson.D{{Key: "$not", Value: bson.D{{Key: "$elemMatch", Value: lineMatch(item.ProductID, item.Size)}}}}},
	}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "items", Value: item}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}
	return updateOne[models.Cart](ctx, s.coll, filter, update, "Cart not found", returnAfter().SetUpsert(true))
}

func (s *CartStore) RemoveItem(ctx context.Context, userID, productID bson.ObjectID, size string) (*models.Cart, error) {
	filter := bson.D{
		{Key: "userId", Value: userID},
		{Key: "items", Value: bson.D{{Key: "$elemMatch", Value: lineMatch(productID, size)}}},
	}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "items", Value: lineMatch(productID, size)}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	}
	cart, err := updateOne[models.Cart](ctx, s.coll, filter, update, "Item not found in cart")
	if err != nil {
		return nil, err
	}
	if !cart.IsEmpty() {
		return cart, nil
	}

	// only delete if nothing was pushed in the meantime
	_, err = s.coll.DeleteOne(ctx, bson.D{
		{Key: "_id", Value: cart.ID},
		{Key: "items", Value: bson.D{{Key: "$size", Value: 0}}},
	})
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *CartStore) Delete(ctx context.Context, userID bson.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.D{{Key: "userId", Value: userID}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return global.NotFound("Cart not found")
	}
	return nil
}

type WishlistStore struct {
	coll *mongo.Collection
}

// Add is idempotent per (userId, productId).
func (s *WishlistStore) Add(ctx context.Context, userID, productID bson.ObjectID) (*models.WishlistItem, error) {
	now := time.Now()
	filter := bson.D{{Key: "userId", Value: userID}, {Key: "productId", Value: productID}}
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "whishlist", Value: true}, {Key: "updatedAt", Value: now}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "createdAt", Value: now}}},
	}
	return updateOne[models.WishlistItem](ctx, s.coll, filter, update, "Item not found in wishlist", returnAfter().SetUpsert(true))
}

func (s *WishlistStore) List(ctx context.Context, userID bson.ObjectID) ([]models.WishlistItem, error) {
	return findAll[models.WishlistItem](ctx, s.coll, bson.D{{Key: "userId", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (s *WishlistStore) Remove(ctx context.Context, userID, productID bson.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.D{{Key: "userId", Value: userID}, {Key: "productId", Value: productID}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return global.NotFound("Item not found in wishlist")
	}
	return nil
}
