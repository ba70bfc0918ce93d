// Package memstore holds in-memory implementations of the service store
// interfaces. They back the service and router tests.
package memstore

import (
	"context"
	"regexp"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

type Products struct {
	mu    sync.RWMutex
	items map[bson.ObjectID]models.Product
}

func NewProducts(products ...models.Product) *Products {
	s := &Products{items: map[bson.ObjectID]models.Product{}}
	for _, p := range products {
		p := p
		_ = s.Create(context.Background(), &p)
	}
	return s
}

func (s *Products) all(match func(models.Product) bool) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Product{}
	for _, p := range s.items {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Products) List(_ context.Context) ([]models.Product, error) {
	return s.all(func(models.Product) bool { return true }), nil
}

func (s *Products) ListByCategory(_ context.Context, category string) ([]models.Product, error) {
	return s.all(func(p models.Product) bool { return p.Category == category }), nil
}

func (s *Products) Search(_ context.Context, term string) ([]models.Product, error) {
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	return s.all(func(p models.Product) bool { return re.MatchString(p.Name) }), nil
}

func (s *Products) GetByID(_ context.Context, id bson.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return nil, global.NotFound("Product not found")
	}
	return &p, nil
}

func (s *Products) GetByProductID(_ context.Context, productID string) (*models.Product, error) {
	for _, p := range s.all(func(p models.Product) bool { return p.ProductID == productID }) {
		return &p, nil
	}
	return nil, global.NotFound("Product not found")
}

func (s *Products) IDsByCategory(ctx context.Context, category string) ([]bson.ObjectID, error) {
	products, _ := s.ListByCategory(ctx, category)
	ids := make([]bson.ObjectID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (s *Products) Create(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.ProductID == product.ProductID {
			return global.Conflict("duplicate productId")
		}
	}
	if product.ID.IsZero() {
		product.ID = bson.NewObjectID()
	}
	s.items[product.ID] = *product
	return nil
}

func (s *Products) Replace(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[product.ID]; !ok {
		return global.NotFound("Product not found")
	}
	for id, p := range s.items {
		if id != product.ID && p.ProductID == product.ProductID {
			return global.Conflict("duplicate productId")
		}
	}
	s.items[product.ID] = *product
	return nil
}

func (s *Products) Delete(_ context.Context, id bson.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, global.NotFound("Product not found")
	}
	delete(s.items, id)
	return &p, nil
}

// Cache is a map-backed product cache that counts hits.
type Cache struct {
	mu    sync.Mutex
	items map[string]models.Product
	Hits  int
}

func NewCache() *Cache {
	return &Cache{items: map[string]models.Product{}}
}

func (c *Cache) Get(_ context.Context, productID string) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.items[productID]
	if !ok {
		return nil, global.NotFound("cache miss")
	}
	c.Hits++
	return &p, nil
}

func (c *Cache) Set(_ context.Context, product *models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[product.ProductID] = *product
	return nil
}

func (c *Cache) Remove(_ context.Context, product *models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, product.ProductID)
	return nil
}

type Carts struct {
	mu    sync.Mutex
	carts map[bson.ObjectID]*models.Cart
}

func NewCarts() *Carts {
	return &Carts{carts: map[bson.ObjectID]*models.Cart{}}
}

func cloneCart(c *models.Cart) *models.Cart {
	out := *c
	out.Items = append([]models.CartItem{}, c.Items...)
	return &out
}

func (s *Carts) Get(_ context.Context, userID bson.ObjectID) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil, global.NotFound("Cart not found")
	}
	return cloneCart(c), nil
}

func (s *Carts) UpsertItem(_ context.Context, userID bson.ObjectID, item models.CartItem) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = &models.Cart{ID: bson.NewObjectID(), UserID: userID, Items: []models.CartItem{}}
		c.SetTimestamps()
		s.carts[userID] = c
	}
	c.Upsert(item)
	return cloneCart(c), nil
}

func (s *Carts) RemoveItem(_ context.Context, userID, productID bson.ObjectID, size string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok || !c.Remove(productID, size) {
		return nil, global.NotFound("Item not found in cart")
	}
	if c.IsEmpty() {
		delete(s.carts, userID)
		return nil, nil
	}
	return cloneCart(c), nil
}

func (s *Carts) Delete(_ context.Context, userID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[userID]; !ok {
		return global.NotFound("Cart not found")
	}
	delete(s.carts, userID)
	return nil
}

type Wishlist struct {
	mu    sync.Mutex
	items []models.WishlistItem
}

func NewWishlist() *Wishlist {
	return &Wishlist{}
}

func (s *Wishlist) Add(_ context.Context, userID, productID bson.ObjectID) (*models.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].UserID == userID && s.items[i].ProductID == productID {
			s.items[i].Whishlist = true
			item := s.items[i]
			return &item, nil
		}
	}
	item := models.WishlistItem{ID: bson.NewObjectID(), UserID: userID, ProductID: productID, Whishlist: true}
	s.items = append(s.items, item)
	return &item, nil
}

func (s *Wishlist) List(_ context.Context, userID bson.ObjectID) ([]models.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WishlistItem{}
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Wishlist) Remove(_ context.Context, userID, productID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.UserID == userID && item.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return global.NotFound("Item not found in wishlist")
}
