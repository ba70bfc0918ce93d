package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

const recentReviewLimit = 10

type ReviewService struct {
	reviews  ReviewStore
	products ProductStore
	now      func() time.Time
}

func NewReviewService(reviews ReviewStore, products ProductStore) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, now: time.Now}
}

// Create stores a review unless the caller already has MaxReviewsPerProduct
// reviews on the product. Count and insert are separate calls, so two
// simultaneous submissions can both pass the check.
func (s *ReviewService) Create(ctx context.Context, caller *models.User, req *models.ReviewRequest) (*models.Review, error) {
	productID, err := parseID(req.ProductID, "Invalid product id")
	if err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, global.BadRequest("Rating must be between 1 and 5").WithField("rating", "out_of_range")
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if global.IsNotFound(err) {
			return nil, global.NotFound("Product not found")
		}
		return nil, err
	}

	count, err := s.reviews.CountByCustomer(ctx, productID, caller.ID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxReviewsPerProduct {
		return nil, global.BadRequest(fmt.Sprintf("You have already submitted %d reviews for this product.", models.MaxReviewsPerProduct))
	}

	review := &models.Review{
		CustomerID: caller.ID,
		ProductID:  productID,
		Review:     req.Review,
		Rating:     req.Rating,
		Images:     req.Images,
		Replies:    []models.Reply{},
	}
	if review.Images == nil {
		review.Images = []string{}
	}
	review.SetTimestamps()
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	return s.reviews.List(ctx, models.ReviewFilter{})
}

func (s *ReviewService) Recent(ctx context.Context) ([]models.Review, error) {
	return s.reviews.List(ctx, models.ReviewFilter{Limit: recentReviewLimit})
}

func (s *ReviewService) ByCategory(ctx context.Context, category string) ([]models.Review, error) {
	ids, err := s.products.IDsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Review{}, nil
	}
	return s.reviews.List(ctx, models.ReviewFilter{ProductIDs: ids})
}

// ByDate returns the reviews created on the given calendar day (UTC).
func (s *ReviewService) ByDate(ctx context.Context, date string) ([]models.Review, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, global.BadRequest("Invalid date, expected YYYY-MM-DD").WithField("date", "invalid_date")
	}
	end := day.Add(24*time.Hour - time.Nanosecond)
	return s.reviews.List(ctx, models.ReviewFilter{From: &day, To: &end})
}

func (s *ReviewService) ByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	oid, err := parseID(productID, "Invalid product id")
	if err != nil {
		return nil, err
	}
	return s.reviews.List(ctx, models.ReviewFilter{ProductIDs: []bson.ObjectID{oid}})
}

func (s *ReviewService) AverageRatings(ctx context.Context) ([]models.ProductRating, error) {
	ratings, err := s.reviews.AverageRatings(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ratings {
		ratings[i].AvgRating = round2(ratings[i].AvgRating)
	}
	return ratings, nil
}

// Distribution returns one bucket per star from 5 down to 1, zero-filled.
func (s *ReviewService) Distribution(ctx context.Context, productID string) ([]models.RatingCount, error) {
	oid, err := parseID(productID, "Invalid product id")
	if err != nil {
		return nil, err
	}
	return s.distribution(ctx, oid)
}

func (s *ReviewService) distribution(ctx context.Context, productID bson.ObjectID) ([]models.RatingCount, error) {
	counts, err := s.reviews.Distribution(ctx, productID)
	if err != nil {
		return nil, err
	}
	byRating := make(map[int]int64, len(counts))
	for _, c := range counts {
		byRating[c.Rating] = c.Count
	}
	out := make([]models.RatingCount, 0, 5)
	for rating := 5; rating >= 1; rating-- {
		out = append(out, models.RatingCount{Rating: rating, Count: byRating[rating]})
	}
	return out, nil
}

func (s *ReviewService) Summary(ctx context.Context, productID string) (*models.RatingSummary, error) {
	oid, err := parseID(productID, "Invalid product id")
	if err != nil {
		return nil, err
	}
	summary := &models.RatingSummary{}
	rating, err := s.reviews.ProductRating(ctx, oid)
	switch {
	case err == nil:
		summary.Average = round2(rating.AvgRating)
		summary.Count = rating.Count
	case !global.IsNotFound(err):
		return nil, err
	}
	if summary.Distribution, err = s.distribution(ctx, oid); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *ReviewService) AddReply(ctx context.Context, caller *models.User, reviewID, text string) (*models.Review, error) {
	oid, err := parseID(reviewID, "Invalid review id")
	if err != nil {
		return nil, err
	}
	review, err := s.reviews.AddReply(ctx, oid, models.Reply{
		ID:        bson.NewObjectID(),
		Text:      text,
		RepliedBy: caller.ID,
		CreatedAt: s.now(),
	})
	if global.IsNotFound(err) {
		return nil, global.NotFound("Review not found")
	}
	return review, err
}

func (s *ReviewService) UpdateReply(ctx context.Context, reviewID, replyID, text string) (*models.Review, error) {
	rid, err := parseID(reviewID, "Invalid review id")
	if err != nil {
		return nil, err
	}
	pid, err := parseID(replyID, "Invalid reply id")
	if err != nil {
		return nil, err
	}
	review, err := s.reviews.UpdateReply(ctx, rid, pid, text)
	if global.IsNotFound(err) {
		return nil, global.NotFound("Review or reply not found")
	}
	return review, err
}

func round2(f float64) float64 {
	r, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return r
}
