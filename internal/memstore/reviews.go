package memstore

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

type Reviews struct {
	mu      sync.Mutex
	reviews []*models.Review
}

func NewReviews() *Reviews {
	return &Reviews{}
}

func (s *Reviews) Create(_ context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if review.ID.IsZero() {
		review.ID = bson.NewObjectID()
	}
	stored := *review
	s.reviews = append(s.reviews, &stored)
	return nil
}

func (s *Reviews) GetByID(_ context.Context, id bson.ObjectID) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.ID == id {
			out := *r
			return &out, nil
		}
	}
	return nil, global.NotFound("Review not found")
}

func (s *Reviews) CountByCustomer(_ context.Context, productID, customerID bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.reviews {
		if r.ProductID == productID && r.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (s *Reviews) List(_ context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := map[bson.ObjectID]bool{}
	for _, id := range filter.ProductIDs {
		wanted[id] = true
	}
	out := []models.Review{}
	for i := len(s.reviews) - 1; i >= 0; i-- {
		r := s.reviews[i]
		if len(wanted) > 0 && !wanted[r.ProductID] {
			continue
		}
		if filter.From != nil && r.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && r.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && int64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Reviews) AverageRatings(_ context.Context) ([]models.ProductRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := map[bson.ObjectID]*models.ProductRating{}
	var order []bson.ObjectID
	for _, r := range s.reviews {
		agg, ok := sums[r.ProductID]
		if !ok {
			agg = &models.ProductRating{ProductID: r.ProductID}
			sums[r.ProductID] = agg
			order = append(order, r.ProductID)
		}
		agg.AvgRating += float64(r.Rating)
		agg.Count++
	}
	out := make([]models.ProductRating, 0, len(order))
	for _, id := range order {
		agg := sums[id]
		agg.AvgRating /= float64(agg.Count)
		out = append(out, *agg)
	}
	return out, nil
}

func (s *Reviews) ProductRating(ctx context.Context, productID bson.ObjectID) (*models.ProductRating, error) {
	all, _ := s.AverageRatings(ctx)
	for _, r := range all {
		if r.ProductID == productID {
			return &r, nil
		}
	}
	return nil, global.NotFound("No reviews for product")
}

func (s *Reviews) Distribution(_ context.Context, productID bson.ObjectID) ([]models.RatingCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[int]int64{}
	for _, r := range s.reviews {
		if r.ProductID == productID {
			counts[r.Rating]++
		}
	}
	out := []models.RatingCount{}
	for rating, n := range counts {
		out = append(out, models.RatingCount{Rating: rating, Count: n})
	}
	return out, nil
}

func (s *Reviews) AddReply(_ context.Context, reviewID bson.ObjectID, reply models.Reply) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.ID == reviewID {
			r.Replies = append(r.Replies, reply)
			out := *r
			return &out, nil
		}
	}
	return nil, global.NotFound("Review not found")
}

func (s *Reviews) UpdateReply(_ context.Context, reviewID, replyID bson.ObjectID, text string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.ID != reviewID {
			continue
		}
		reply := r.FindReply(replyID)
		if reply == nil {
			break
		}
		reply.Text = text
		out := *r
		return &out, nil
	}
	return nil, global.NotFound("Review or reply not found")
}
