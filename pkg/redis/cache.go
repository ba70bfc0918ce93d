package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

const (
	productTTL       = 24 * time.Hour
	recentProductKey = "products:recent"
	recentLimit      = 100
)

// ProductCache stores catalog entries as JSON under product:{productId}, with
// per-category and recent lists of product ids alongside.
type ProductCache struct {
	client *redisclient.Client
}

func NewProductCache(client *redisclient.Client) *ProductCache {
	return &ProductCache{client: client}
}

func productKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}

func categoryKey(category string) string {
	return fmt.Sprintf("category:%s", category)
}

// Get returns a NotFound error on a cache miss.
func (c *ProductCache) Get(ctx context.Context, productID string) (*models.Product, error) {
	productJSON, err := c.client.Get(ctx, productKey(productID)).Result()
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return nil, global.NotFound("product not cached")
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(productJSON), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &product, nil
}

func (c *ProductCache) Set(ctx context.Context, product *models.Product) error {
	productJSON, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ProductID, err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, productKey(product.ProductID), productJSON, productTTL)

	// LRem first so refreshing a product does not duplicate it in the lists
	pipe.LRem(ctx, categoryKey(product.Category), 0, product.ProductID)
	pipe.LPush(ctx, categoryKey(product.Category), product.ProductID)
	pipe.Expire(ctx, categoryKey(product.Category), productTTL)

	pipe.LRem(ctx, recentProductKey, 0, product.ProductID)
	pipe.LPush(ctx, recentProductKey, product.ProductID)
	pipe.LTrim(ctx, recentProductKey, 0, recentLimit-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache product %s: %w", product.ProductID, err)
	}
	return nil
}

// Remove drops a product and its list memberships.
func (c *ProductCache) Remove(ctx context.Context, product *models.Product) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, productKey(product.ProductID))
	pipe.LRem(ctx, categoryKey(product.Category), 0, product.ProductID)
	pipe.LRem(ctx, recentProductKey, 0, product.ProductID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove product %s from cache: %w", product.ProductID, err)
	}
	return nil
}

// Recent lists the most recently cached product ids, newest first.
func (c *ProductCache) Recent(ctx context.Context, limit int64) ([]string, error) {
	return c.client.LRange(ctx, recentProductKey, 0, limit-1).Result()
}
