package service

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

type WishlistService struct {
	items    WishlistStore
	products ProductStore
}

func NewWishlistService(items WishlistStore, products ProductStore) *WishlistService {
	return &WishlistService{items: items, products: products}
}

func (s *WishlistService) Add(ctx context.Context, userID bson.ObjectID, productID string) (*models.WishlistItem, error) {
	pid, err := parseID(productID, "Invalid product id")
	if err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, pid); err != nil {
		if global.IsNotFound(err) {
			return nil, global.NotFound("Product not found")
		}
		return nil, err
	}
	return s.items.Add(ctx, userID, pid)
}

func (s *WishlistService) List(ctx context.Context, userID bson.ObjectID) ([]models.WishlistItem, error) {
	return s.items.List(ctx, userID)
}

func (s *WishlistService) Remove(ctx context.Context, userID bson.ObjectID, productID string) error {
	pid, err := parseID(productID, "Invalid product id")
	if err != nil {
		return err
	}
	if err := s.items.Remove(ctx, userID, pid); err != nil {
		if global.IsNotFound(err) {
			return global.NotFound("Item not found in wishlist")
		}
		return err
	}
	return nil
}
