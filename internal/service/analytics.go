package service

import (
	"context"

	"isvaryam.com/storefront/pkg/models"
)

type AnalyticsService struct {
	store AnalyticsStore
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// RevenueTrend is revenue per day over orders that left NEW, oldest day first.
func (s *AnalyticsService) RevenueTrend(ctx context.Context) ([]models.RevenuePoint, error) {
	return s.store.RevenueTrend(ctx)
}

// TopProducts ranks products by units sold across all orders.
func (s *AnalyticsService) TopProducts(ctx context.Context, limit int64) ([]models.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.TopProducts(ctx, limit)
}
