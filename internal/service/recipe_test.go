package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"isvaryam.com/storefront/internal/memstore"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func TestRecipeAuthorship(t *testing.T) {
	f := newFixture(t)
	svc := NewRecipeService(memstore.NewRecipes())
	ctx := context.Background()
	req := &models.RecipeRequest{
		Title:        "Ghee Pongal",
		Ingredients:  []models.Ingredient{{Name: "Ghee", Quantity: "2 tbsp"}},
		Instructions: []string{"Cook rice and dal", "Temper with ghee"},
		Difficulty:   "Easy",
	}

	recipe, err := svc.Create(ctx, f.alice, req)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, recipe.Author)

	req.Title = "Better Pongal"
	_, err = svc.Update(ctx, f.bob, recipe.ID.Hex(), req)
	assert.Equal(t, global.KindForbidden, global.KindOf(err))
	updated, err := svc.Update(ctx, f.alice, recipe.ID.Hex(), req)
	require.NoError(t, err)
	assert.Equal(t, "Better Pongal", updated.Title)

	liked, err := svc.SetLike(ctx, f.bob, recipe.ID.Hex(), true)
	require.NoError(t, err)
	liked, err = svc.SetLike(ctx, f.bob, recipe.ID.Hex(), true)
	require.NoError(t, err)
	assert.Len(t, liked.Likes, 1)
	unliked, err := svc.SetLike(ctx, f.bob, recipe.ID.Hex(), false)
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	rated, err := svc.Rate(ctx, f.bob, recipe.ID.Hex(), &models.RecipeRatingRequest{Rating: 4, Comment: "tasty"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, rated.AverageRating())

	assert.Equal(t, global.KindForbidden, global.KindOf(svc.Delete(ctx, f.bob, recipe.ID.Hex())))
	require.NoError(t, svc.Delete(ctx, f.alice, recipe.ID.Hex()))
	_, err = svc.Get(ctx, recipe.ID.Hex())
	assert.True(t, global.IsNotFound(err))
}

func TestWishlist(t *testing.T) {
	f := newFixture(t)
	svc := NewWishlistService(memstore.NewWishlist(), f.products)
	ctx := context.Background()

	_, err := svc.Add(ctx, f.alice.ID, f.oil.ID.Hex())
	require.NoError(t, err)
	_, err = svc.Add(ctx, f.alice.ID, f.oil.ID.Hex())
	require.NoError(t, err)

	items, err := svc.List(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Remove(ctx, f.alice.ID, f.oil.ID.Hex()))
	assert.True(t, global.IsNotFound(svc.Remove(ctx, f.alice.ID, f.oil.ID.Hex())))

	_, err = svc.Add(ctx, f.alice.ID, "abc")
	assert.Equal(t, global.KindBadRequest, global.KindOf(err))
}

func TestContactSendsTwoMails(t *testing.T) {
	outbox := &memstore.Outbox{}
	svc := NewContactService(outbox, "shop@isvaryam.com")
	require.NoError(t, svc.Send(context.Background(), &models.ContactRequest{Name: "A", Email: "a@example.com", Subject: "Bulk", Message: "Hi"}))
	assert.Len(t, outbox.Sent(), 2)
}
