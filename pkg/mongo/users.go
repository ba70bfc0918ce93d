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

const userNotFound = "User not found"

type UserStore struct {
	coll *mongo.Collection
}

func (s *UserStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, s.coll, byID(id), userNotFound)
}

// GetByEmail expects an already normalized address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.coll, bson.D{{Key: "email", Value: email}}, userNotFound)
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, user)
	return translateError(err, userNotFound)
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	result, err := s.coll.ReplaceOne(ctx, byID(user.ID), user)
	if err != nil {
		return translateError(err, userNotFound)
	}
	if result.MatchedCount == 0 {
		return global.NotFound(userNotFound)
	}
	return nil
}

const recipeNotFound = "Recipe not found"

type RecipeStore struct {
	coll *mongo.Collection
}

func (s *RecipeStore) Create(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID.IsZero() {
		recipe.ID = bson.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, recipe)
	return translateError(err, recipeNotFound)
}

func (s *RecipeStore) List(ctx context.Context) ([]models.Recipe, error) {
	return findAll[models.Recipe](ctx, s.coll, bson.D{}, options.Find().SetSort(newestFirst))
}

func (s *RecipeStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.Recipe, error) {
	return findOne[models.Recipe](ctx, s.coll, byID(id), recipeNotFound)
}

func (s *RecipeStore) Replace(ctx context.Context, recipe *models.Recipe) error {
	result, err := s.coll.ReplaceOne(ctx, byID(recipe.ID), recipe)
	if err != nil {
		return translateError(err, recipeNotFound)
	}
	if result.MatchedCount == 0 {
		return global.NotFound(recipeNotFound)
	}
	return nil
}

func (s *RecipeStore) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return global.NotFound(recipeNotFound)
	}
	return nil
}

func likeUpdate(userID bson.ObjectID, liked bool) bson.D {
	op := "$pull"
	if liked {
		op = "$addToSet"
	}
	return bson.D{
		{Key: op, Value: bson.D{{Key: "likes", Value: userID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	}
}

func (s *RecipeStore) SetLike(ctx context.Context, id, userID bson.ObjectID, liked bool) (*models.Recipe, error) {
	return updateOne[models.Recipe](ctx, s.coll, byID(id), likeUpdate(userID, liked), recipeNotFound)
}

func (s *RecipeStore) AddRating(ctx context.Context, id bson.ObjectID, rating models.RecipeRating) (*models.Recipe, error) {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "ratings", Value: rating}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	}
	return updateOne[models.Recipe](ctx, s.coll, byID(id), update, recipeNotFound)
}
