package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func TestReviewCapPerCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := &models.ReviewRequest{ProductID: f.oil.ID.Hex(), Review: "Fresh", Rating: 5}

	for i := 0; i < models.MaxReviewsPerProduct; i++ {
		_, err := f.review.Create(ctx, f.alice, req)
		require.NoError(t, err)
	}
	_, err := f.review.Create(ctx, f.alice, req)
	require.Error(t, err)
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))
	assert.Contains(t, err.Error(), "You have already submitted 3 reviews for this product.")

	_, err = f.review.Create(ctx, f.bob, req)
	assert.NoError(t, err)
}

func TestReviewRatingBounds(t *testing.T) {
	f := newFixture(t)
	for _, rating := range []int{0, 6} {
		_, err := f.review.Create(context.Background(), f.alice, &models.ReviewRequest{ProductID: f.oil.ID.Hex(), Review: "x", Rating: rating})
		assert.Equal(t, global.KindBadRequest, global.KindOf(err))
	}
}

func TestRatingSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, r := range []struct {
		user   *models.User
		rating int
	}{{f.alice, 5}, {f.bob, 3}, {f.admin, 4}} {
		_, err := f.review.Create(ctx, r.user, &models.ReviewRequest{ProductID: f.oil.ID.Hex(), Review: "ok", Rating: r.rating})
		require.NoError(t, err)
	}

	summary, err := f.review.Summary(ctx, f.oil.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.Average)
	assert.Equal(t, int64(3), summary.Count)
	assert.Equal(t, []models.RatingCount{
		{Rating: 5, Count: 1}, {Rating: 4, Count: 1}, {Rating: 3, Count: 1}, {Rating: 2}, {Rating: 1},
	}, summary.Distribution)

	empty, err := f.review.Summary(ctx, f.ghee.ID.Hex())
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Len(t, empty.Distribution, 5)

	averages, err := f.review.AverageRatings(ctx)
	require.NoError(t, err)
	require.Len(t, averages, 1)
	assert.Equal(t, 4.0, averages[0].AvgRating)
}

func TestReviewListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.review.Create(ctx, f.alice, &models.ReviewRequest{ProductID: f.oil.ID.Hex(), Review: "oil", Rating: 4})
	require.NoError(t, err)
	_, err = f.review.Create(ctx, f.alice, &models.ReviewRequest{ProductID: f.ghee.ID.Hex(), Review: "ghee", Rating: 5})
	require.NoError(t, err)

	byCat, err := f.review.ByCategory(ctx, "ghee")
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "ghee", byCat[0].Review)

	none, err := f.review.ByCategory(ctx, "spices")
	require.NoError(t, err)
	assert.Empty(t, none)

	today, err := f.review.ByDate(ctx, time.Now().UTC().Format("2006-01-02"))
	require.NoError(t, err)
	assert.Len(t, today, 2)

	_, err = f.review.ByDate(ctx, "18/10/2026")
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))

	recent, err := f.review.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghee", recent[0].Review)
}

func TestReviewReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	review, err := f.review.Create(ctx, f.alice, &models.ReviewRequest{ProductID: f.oil.ID.Hex(), Review: "where is my order", Rating: 2})
	require.NoError(t, err)

	replied, err := f.review.AddReply(ctx, f.admin, review.ID.Hex(), "Shipped today")
	require.NoError(t, err)
	require.Len(t, replied.Replies, 1)
	assert.Equal(t, f.admin.ID, replied.Replies[0].RepliedBy)

	edited, err := f.review.UpdateReply(ctx, review.ID.Hex(), replied.Replies[0].ID.Hex(), "Delivered")
	require.NoError(t, err)
	assert.Equal(t, "Delivered", edited.Replies[0].Text)

	_, err = f.review.UpdateReply(ctx, review.ID.Hex(), review.ID.Hex(), "nope")
	assert.True(t, global.IsNotFound(err))
}
