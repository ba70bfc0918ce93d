package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

const reviewNotFound = "Review not found"

type ReviewStore struct {
	coll *mongo.Collection
}

func (s *ReviewStore) Create(ctx context.Context, review *models.Review) error {
	if review.ID.IsZero() {
		review.ID = bson.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, review)
	return translateError(err, reviewNotFound)
}

func (s *ReviewStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Review, error) {
	return findOne[models.Review](ctx, s.coll, byID(id), reviewNotFound)
}

func (s *ReviewStore) CountByCustomer(ctx context.Context, productID, customerID bson.ObjectID) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.D{
		{Key: "productId", Value: productID},
		{Key: "CustomerId", Value: customerID},
	})
}

func reviewListFilter(filter models.ReviewFilter) bson.D {
	query := bson.D{}
	if len(filter.ProductIDs) > 0 {
		query = append(query, bson.E{Key: "productId", Value: bson.D{{Key: "$in", Value: filter.ProductIDs}}})
	}
	if created := dateRange(filter.From, filter.To); created != nil {
		query = append(query, bson.E{Key: "createdAt", Value: created})
	}
	return query
}

func (s *ReviewStore) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	opts := options.Find().SetSort(newestFirst)
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	return findAll[models.Review](ctx, s.coll, reviewListFilter(filter), opts)
}

func ratingGroupStage() bson.D {
	return bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$productId"},
		{Key: "avgRating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}}
}

func (s *ReviewStore) AverageRatings(ctx context.Context) ([]models.ProductRating, error) {
	pipeline := bson.A{
		ratingGroupStage(),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	return aggregate[models.ProductRating](ctx, s.coll, pipeline)
}

func (s *ReviewStore) ProductRating(ctx context.Context, productID bson.ObjectID) (*models.ProductRating, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "productId", Value: productID}}}},
		ratingGroupStage(),
	}
	ratings, err := aggregate[models.ProductRating](ctx, s.coll, pipeline)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, global.NotFound("No reviews for product")
	}
	return &ratings[0], nil
}

func distributionPipeline(productID bson.ObjectID) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "productId", Value: productID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$rating"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	}
}

func (s *ReviewStore) Distribution(ctx context.Context, productID bson.ObjectID) ([]models.RatingCount, error) {
	return aggregate[models.RatingCount](ctx, s.coll, distributionPipeline(productID))
}

func (s *ReviewStore) AddReply(ctx context.Context, reviewID bson.ObjectID, reply models.Reply) (*models.Review, error) {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "replies", Value: reply}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	}
	return updateOne[models.Review](ctx, s.coll, byID(reviewID), update, reviewNotFound)
}

func (s *ReviewStore) UpdateReply(ctx context.Context, reviewID, replyID bson.ObjectID, text string) (*models.Review, error) {
	filter := bson.D{{Key: "_id", Value: reviewID}, {Key: "replies._id", Value: replyID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "replies.$.text", Value: text},
		{Key: "updatedAt", Value: time.Now()},
	}}}
	return updateOne[models.Review](ctx, s.coll, filter, update, "Review or reply not found")
}
