package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"isvaryam.com/storefront/pkg/models"
)

// AnalyticsStore runs the reporting aggregations over the orders collection.
type AnalyticsStore struct {
	orders *mongo.Collection
}

// revenueTrendPipeline sums totalPrice per calendar day (UTC) over every
// order that left NEW.
func revenueTrendPipeline() bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "status", Value: bson.D{{Key: "$ne", Value: models.OrderStatusNew}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$createdAt"},
			}}}},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func (s *AnalyticsStore) RevenueTrend(ctx context.Context) ([]models.RevenuePoint, error) {
	return aggregate[models.RevenuePoint](ctx, s.orders, revenueTrendPipeline())
}

func topProductsPipeline(limit int64) bson.A {
	return bson.A{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$items.product"},
			{Key: "totalSold", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalSold", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: productsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "product"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$product"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func (s *AnalyticsStore) TopProducts(ctx context.Context, limit int64) ([]models.TopProduct, error) {
	return aggregate[models.TopProduct](ctx, s.orders, topProductsPipeline(limit))
}
