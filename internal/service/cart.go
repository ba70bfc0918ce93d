package service

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

type CartService struct {
	carts    CartStore
	products ProductStore
}

func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

func emptyCart(userID bson.ObjectID) *models.Cart {
	return &models.Cart{UserID: userID, Items: []models.CartItem{}}
}

func (s *CartService) Get(ctx context.Context, userID bson.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if global.IsNotFound(err) {
		return emptyCart(userID), nil
	}
	return cart, err
}

// Add sets the (product, size) line to the requested quantity. The stored
// price is the catalog price for that size.
func (s *CartService) Add(ctx context.Context, userID bson.ObjectID, req *models.AddToCartRequest) (*models.Cart, error) {
	productID, err := parseID(req.ProductID, "Invalid product id")
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if global.IsNotFound(err) {
			return nil, global.NotFound("Product not found")
		}
		return nil, err
	}
	price, ok := product.PriceForSize(req.Size)
	if !ok {
		return nil, global.BadRequest("Invalid size for product!").WithField("size", "invalid_size")
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}
	return s.carts.UpsertItem(ctx, userID, models.CartItem{
		ProductID: productID,
		Size:      req.Size,
		Price:     price,
		Quantity:  quantity,
	})
}

func (s *CartService) Remove(ctx context.Context, userID bson.ObjectID, productID, size string) (*models.Cart, error) {
	pid, err := parseID(productID, "Invalid product id")
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.RemoveItem(ctx, userID, pid, size)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return emptyCart(userID), nil
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID bson.ObjectID) error {
	err := s.carts.Delete(ctx, userID)
	if global.IsNotFound(err) {
		return nil
	}
	return err
}
