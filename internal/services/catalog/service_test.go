package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/storage"
)

func newTestService(t *testing.T) (*Service, interfaces.StorageManager) {
	t.Helper()
	dir := t.TempDir()
	cfg := &common.StorageConfig{
		Users:   common.AreaConfig{Path: filepath.Join(dir, "users")},
		Ledger:  common.AreaConfig{Path: filepath.Join(dir, "ledger")},
		Catalog: common.AreaConfig{Path: filepath.Join(dir, "catalog")},
	}
	mgr, err := storage.NewManager(common.NewSilentLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	svc := NewService(mgr, common.NewSilentLogger(), &common.CatalogConfig{
		SeedOnStart:      true,
		PriceHistoryDays: 30,
	})
	return svc, mgr
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(seedProducts), created)

	// Second run creates nothing
	created, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestSeedGeneratesPriceHistory(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()

	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	product, err := mgr.CatalogStore().GetProductBySymbol(ctx, "RELIANCE")
	require.NoError(t, err)
	assert.Len(t, product.PriceHistory, 31)

	// One cent of slack for the 2dp rounding of the band edges
	cent := decimal.RequireFromString("0.01")
	base := product.PricePerUnit
	low := base.Mul(decimal.RequireFromString("0.95")).Sub(cent)
	high := base.Mul(decimal.RequireFromString("1.05")).Add(cent)
	for _, point := range product.PriceHistory {
		assert.True(t, point.Price.GreaterThanOrEqual(low), "point %s below 95%% of base", point.Price)
		assert.True(t, point.Price.LessThanOrEqual(high), "point %s above 105%% of base", point.Price)
		assert.True(t, point.Price.Exponent() >= -2, "point %s has more than 2 decimal places", point.Price)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	// Inactive products are hidden
	require.NoError(t, mgr.CatalogStore().SaveProduct(ctx, &models.Product{
		ID:           "delisted",
		Name:         "Delisted Corp",
		Symbol:       "GONE",
		Category:     models.CategoryStock,
		PricePerUnit: decimal.NewFromInt(1),
		IsActive:     false,
	}))

	all, err := svc.List(ctx, interfaces.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, len(seedProducts))
	for _, p := range all {
		assert.NotEqual(t, "GONE", p.Symbol)
		assert.Nil(t, p.PriceHistory, "list views strip history")
	}

	// Category filter
	funds, err := svc.List(ctx, interfaces.ProductFilter{Category: models.CategoryMutualFund})
	require.NoError(t, err)
	assert.Len(t, funds, 2)

	// Search over name/symbol/sector
	banks, err := svc.List(ctx, interfaces.ProductFilter{Search: "banking"})
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, "HDFCBANK", banks[0].Symbol)

	// Sort by price descending
	byPrice, err := svc.List(ctx, interfaces.ProductFilter{SortBy: "price_per_unit", SortOrder: "desc"})
	require.NoError(t, err)
	require.NotEmpty(t, byPrice)
	for i := 1; i < len(byPrice); i++ {
		assert.True(t, byPrice[i-1].PricePerUnit.GreaterThanOrEqual(byPrice[i].PricePerUnit))
	}
}

func TestGetInactiveProductNotFound(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, mgr.CatalogStore().SaveProduct(ctx, &models.Product{
		ID:           "delisted",
		Name:         "Delisted Corp",
		Symbol:       "GONE",
		Category:     models.CategoryStock,
		PricePerUnit: decimal.NewFromInt(1),
		IsActive:     false,
	}))

	_, err := svc.Get(ctx, "delisted")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.CurrentPrice(ctx, "delisted")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestByCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	stocks, err := svc.ByCategory(ctx, models.CategoryStock, 2)
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	// Sorted by market cap descending
	assert.Equal(t, "RELIANCE", stocks[0].Symbol)
	assert.Equal(t, "TCS", stocks[1].Symbol)

	_, err = svc.ByCategory(ctx, "bonds", 0)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCurrentPrice(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	product, err := mgr.CatalogStore().GetProductBySymbol(ctx, "TCS")
	require.NoError(t, err)

	price, err := svc.CurrentPrice(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("3680.50")))
}

func TestRenderChart(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	product, err := mgr.CatalogStore().GetProductBySymbol(ctx, "RELIANCE")
	require.NoError(t, err)

	png, err := svc.RenderChart(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderChartTooFewPoints(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, mgr.CatalogStore().SaveProduct(ctx, &models.Product{
		ID:           "thin",
		Name:         "Thin History Ltd",
		Symbol:       "THIN",
		Category:     models.CategoryStock,
		PricePerUnit: decimal.NewFromInt(10),
		IsActive:     true,
	}))

	_, err := svc.RenderChart(ctx, "thin")
	assert.Error(t, err)
}
