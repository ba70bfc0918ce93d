package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type RecipeRating struct {
	User      bson.ObjectID `json:"user" bson:"user"`
	Rating    int           `json:"rating" bson:"rating"`
	Comment   string        `json:"comment" bson:"comment"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

type Recipe struct {
	ID           bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title        string          `json:"title" bson:"title"`
	Description  string          `json:"description" bson:"description"`
	Author       bson.ObjectID   `json:"author" bson:"author"`
	Ingredients  []Ingredient    `json:"ingredients" bson:"ingredients"`
	Instructions []string        `json:"instructions" bson:"instructions"`
	Images       []string        `json:"images" bson:"images"`
	Tags         []string        `json:"tags" bson:"tags"`
	CookingTime  int             `json:"cookingTime" bson:"cookingTime"`
	PrepTime     int             `json:"prepTime" bson:"prepTime"`
	Difficulty   string          `json:"difficulty" bson:"difficulty"`
	VideoURL     string          `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	Likes        []bson.ObjectID `json:"likes" bson:"likes"`
	Ratings      []RecipeRating  `json:"ratings" bson:"ratings"`
	CreatedAt    time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updatedAt"`
}

func (r *Recipe) IsAuthor(userID bson.ObjectID) bool {
	return r.Author == userID
}

// AverageRating is zero for a recipe nobody has rated.
func (r *Recipe) AverageRating() float64 {
	if len(r.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, rating := range r.Ratings {
		sum += rating.Rating
	}
	return float64(sum) / float64(len(r.Ratings))
}

func (r *Recipe) SetTimestamps() {
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

type RecipeRequest struct {
	Title        string       `json:"title" binding:"required"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients" binding:"required,min=1"`
	Instructions []string     `json:"instructions" binding:"required,min=1"`
	Images       []string     `json:"images"`
	Tags         []string     `json:"tags"`
	CookingTime  int          `json:"cookingTime" binding:"gte=0"`
	PrepTime     int          `json:"prepTime" binding:"gte=0"`
	Difficulty   string       `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
	VideoURL     string       `json:"videoUrl"`
}

func (req *RecipeRequest) Apply(r *Recipe) {
	r.Title = req.Title
	r.Description = req.Description
	r.Ingredients = req.Ingredients
	r.Instructions = req.Instructions
	r.Images = req.Images
	r.Tags = req.Tags
	r.CookingTime = req.CookingTime
	r.PrepTime = req.PrepTime
	r.Difficulty = req.Difficulty
	r.VideoURL = req.VideoURL
	r.SetTimestamps()
}

type RecipeRatingRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
