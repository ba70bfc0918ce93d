package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

type RecipeService struct {
	recipes RecipeStore
	now     func() time.Time
}

func NewRecipeService(recipes RecipeStore) *RecipeService {
	return &RecipeService{recipes: recipes, now: time.Now}
}

func (s *RecipeService) Create(ctx context.Context, caller *models.User, req *models.RecipeRequest) (*models.Recipe, error) {
	recipe := &models.Recipe{
		Author:  caller.ID,
		Likes:   []bson.ObjectID{},
		Ratings: []models.RecipeRating{},
	}
	req.Apply(recipe)
	recipe.SetTimestamps()
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	return s.recipes.List(ctx)
}

func (s *RecipeService) Get(ctx context.Context, id string) (*models.Recipe, error) {
	oid, err := parseID(id, "Invalid recipe id")
	if err != nil {
		return nil, err
	}
	recipe, err := s.recipes.GetByID(ctx, oid)
	if global.IsNotFound(err) {
		return nil, global.NotFound("Recipe not found")
	}
	return recipe, err
}

// authored loads a recipe the caller may change.
func (s *RecipeService) authored(ctx context.Context, caller *models.User, id string) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !recipe.IsAuthor(caller.ID) {
		return nil, global.Forbidden("Only the author can modify this recipe")
	}
	return recipe, nil
}

func (s *RecipeService) Update(ctx context.Context, caller *models.User, id string, req *models.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.authored(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	req.Apply(recipe)
	recipe.SetTimestamps()
	if err := s.recipes.Replace(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) Delete(ctx context.Context, caller *models.User, id string) error {
	recipe, err := s.authored(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.recipes.Delete(ctx, recipe.ID)
}

func (s *RecipeService) SetLike(ctx context.Context, caller *models.User, id string, liked bool) (*models.Recipe, error) {
	oid, err := parseID(id, "Invalid recipe id")
	if err != nil {
		return nil, err
	}
	recipe, err := s.recipes.SetLike(ctx, oid, caller.ID, liked)
	if global.IsNotFound(err) {
		return nil, global.NotFound("Recipe not found")
	}
	return recipe, err
}

func (s *RecipeService) Rate(ctx context.Context, caller *models.User, id string, req *models.RecipeRatingRequest) (*models.Recipe, error) {
	oid, err := parseID(id, "Invalid recipe id")
	if err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, global.BadRequest("Rating must be between 1 and 5").WithField("rating", "out_of_range")
	}
	recipe, err := s.recipes.AddRating(ctx, oid, models.RecipeRating{
		User:      caller.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: s.now(),
	})
	if global.IsNotFound(err) {
		return nil, global.NotFound("Recipe not found")
	}
	return recipe, err
}
