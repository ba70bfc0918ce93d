package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"isvaryam.com/storefront/pkg/global"
	"isvaryam.com/storefront/pkg/models"
)

type CatalogService struct {
	products ProductStore
	cache    ProductCache
}

// NewCatalogService accepts a nil cache; reads then always go to the store.
func NewCatalogService(products ProductStore, cache ProductCache) *CatalogService {
	return &CatalogService{products: products, cache: cache}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.products.ListByCategory(ctx, category)
}

func (s *CatalogService) Search(ctx context.Context, term string) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Product{}, nil
	}
	return s.products.Search(ctx, term)
}

// Get looks a product up by productId, reporting whether the cache served it.
func (s *CatalogService) Get(ctx context.Context, productID string) (*models.Product, bool, error) {
	if s.cache != nil {
		product, err := s.cache.Get(ctx, productID)
		if err == nil {
			return product, true, nil
		}
		if !global.IsNotFound(err) {
			log.Warn().Err(err).Str("productId", productID).Msg("product cache read failed")
		}
	}

	product, err := s.products.GetByProductID(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	s.refresh(ctx, product)
	return product, false, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id, "Invalid product id")
	if err != nil {
		return nil, err
	}
	return s.products.GetByID(ctx, oid)
}

func (s *CatalogService) Create(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	product := req.ToProduct()
	if err := s.products.Create(ctx, product); err != nil {
		if global.IsConflict(err) {
			return nil, global.Conflict("Product with this productId already exists").WithField("productId", "duplicate")
		}
		return nil, err
	}
	s.refresh(ctx, product)
	return product, nil
}

// Update replaces the product named by req.ID, keeping its creation time and,
// when the request omits one, its discount.
func (s *CatalogService) Update(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	oid, err := parseID(req.ID, "Invalid product id")
	if err != nil {
		return nil, err
	}
	existing, err := s.products.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	product := req.ToProduct()
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	if req.Discount == nil {
		product.Discount = existing.Discount
	}
	if err := s.products.Replace(ctx, product); err != nil {
		if global.IsConflict(err) {
			return nil, global.Conflict("Product with this productId already exists").WithField("productId", "duplicate")
		}
		return nil, err
	}

	if existing.ProductID != product.ProductID {
		s.evict(ctx, existing)
	}
	s.refresh(ctx, product)
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id, "Invalid product id")
	if err != nil {
		return nil, err
	}
	product, err := s.products.Delete(ctx, oid)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, product)
	return product, nil
}

func (s *CatalogService) refresh(ctx context.Context, product *models.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, product); err != nil {
		log.Warn().Err(err).Str("productId", product.ProductID).Msg("failed to cache product")
	}
}

func (s *CatalogService) evict(ctx context.Context, product *models.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Remove(ctx, product); err != nil {
		log.Warn().Err(err).Str("productId", product.ProductID).Msg("failed to evict product from cache")
	}
}
