package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redisclient.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestProductCacheRoundTrip(t *testing.T) {
	mr, client := newTestClient(t)
	cache := NewProductCache(client)
	ctx := context.Background()
	product := &models.Product{ProductID: "OIL-1", Name: "Sesame Oil", Category: "oils",
		Quantities: []models.SizePrice{{Size: "1L", Price: 320}}}

	_, err := cache.Get(ctx, "OIL-1")
	assert.True(t, global.IsNotFound(err))

	require.NoError(t, cache.Set(ctx, product))
	require.NoError(t, cache.Set(ctx, product))

	got, err := cache.Get(ctx, "OIL-1")
	require.NoError(t, err)
	assert.Equal(t, "Sesame Oil", got.Name)
	assert.Equal(t, 320.0, got.Quantities[0].Price)
	assert.Equal(t, productTTL, mr.TTL("product:OIL-1"))

	recent, err := cache.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"OIL-1"}, recent)
	members, err := mr.List("category:oils")
	require.NoError(t, err)
	assert.Equal(t, []string{"OIL-1"}, members)

	require.NoError(t, cache.Remove(ctx, product))
	_, err = cache.Get(ctx, "OIL-1")
	assert.True(t, global.IsNotFound(err))
	recent, err = cache.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestOTPStoreExpiry(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewOTPStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "signup", "a@example.com", "123456", 5*time.Minute))
	code, err := store.Get(ctx, "signup", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	n, err := store.IncrementAttempts(ctx, "signup", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = store.IncrementAttempts(ctx, "signup", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, store.Save(ctx, "signup", "a@example.com", "654321", 5*time.Minute))
	n, err = store.IncrementAttempts(ctx, "signup", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "a new code resets the attempt counter")

	mr.FastForward(5*time.Minute + time.Second)
	_, err = store.Get(ctx, "signup", "a@example.com")
	assert.True(t, global.IsNotFound(err))
}

func TestOTPStoreVerifiedMarker(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewOTPStore(client)
	ctx := context.Background()

	ok, err := store.ConsumeVerified(ctx, "reset", "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.MarkVerified(ctx, "reset", "a@example.com", 15*time.Minute))
	assert.True(t, mr.Exists("otp:verified:reset:a@example.com"))

	ok, err = store.ConsumeVerified(ctx, "reset", "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.ConsumeVerified(ctx, "reset", "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.MarkVerified(ctx, "reset", "b@example.com", 15*time.Minute))
	mr.FastForward(16 * time.Minute)
	ok, err = store.ConsumeVerified(ctx, "reset", "b@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
