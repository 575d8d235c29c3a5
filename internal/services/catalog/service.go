// Package catalog manages the tradable product catalog and price lookups.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

// Service implements CatalogService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
	config  *common.CatalogConfig
}

// NewService creates a new catalog service.
func NewService(storage interfaces.StorageManager, logger *common.Logger, config *common.CatalogConfig) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		config:  config,
	}
}

// List returns active products matching the filter, price history stripped.
func (s *Service) List(ctx context.Context, filter interfaces.ProductFilter) ([]*models.Product, error) {
	all, err := s.storage.CatalogStore().ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var result []*models.Product
	for _, p := range all {
		if !p.IsActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if !p.Matches(filter.Search) {
			continue
		}
		result = append(result, p.WithoutHistory())
	}

	sortProducts(result, filter.SortBy, filter.SortOrder)
	return result, nil
}

// Get returns one product with its full price history.
func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.storage.CatalogStore().GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product '%s': %w", id, models.ErrNotFound)
	}
	return product, nil
}

// ByCategory returns up to limit active products in one category, sorted by
// market cap descending. limit <= 0 means all.
func (s *Service) ByCategory(ctx context.Context, category models.ProductCategory, limit int) ([]*models.Product, error) {
	if !models.ValidProductCategory(category) {
		return nil, fmt.Errorf("unknown category '%s': %w", category, models.ErrNotFound)
	}

	result, err := s.List(ctx, interfaces.ProductFilter{Category: category})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MarketCap.GreaterThan(result[j].MarketCap)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CurrentPrice returns the quoted price for an active product.
func (s *Service) CurrentPrice(ctx context.Context, productID string) (decimal.Decimal, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return product.PricePerUnit, nil
}

// RenderChart renders the product's price history as a PNG line chart.
func (s *Service) RenderChart(ctx context.Context, productID string) ([]byte, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return renderPriceChart(product)
}

func sortProducts(products []*models.Product, sortBy, sortOrder string) {
	desc := strings.EqualFold(sortOrder, "desc")

	var less func(a, b *models.Product) bool
	switch sortBy {
	case "symbol":
		less = func(a, b *models.Product) bool { return a.Symbol < b.Symbol }
	case "price_per_unit":
		less = func(a, b *models.Product) bool { return a.PricePerUnit.LessThan(b.PricePerUnit) }
	case "market_cap":
		less = func(a, b *models.Product) bool { return a.MarketCap.LessThan(b.MarketCap) }
	default:
		less = func(a, b *models.Product) bool { return a.Name < b.Name }
	}

	sort.Slice(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

// Compile-time interface check
var _ interfaces.CatalogService = (*Service)(nil)
