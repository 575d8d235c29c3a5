package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

const defaultHistoryDays = 30

// seedProduct is one catalog entry created on first start.
type seedProduct struct {
	name        string
	symbol      string
	category    models.ProductCategory
	price       string
	metric      models.PriceMetric
	description string
	sector      string
	marketCap   string
}

var seedProducts = []seedProduct{
	{
		name:        "Reliance Industries Ltd",
		symbol:      "RELIANCE",
		category:    models.CategoryStock,
		price:       "2450.75",
		metric:      models.MetricPerShare,
		description: "Largest private sector company in India, engaged in petrochemicals, oil & gas, telecom and retail.",
		sector:      "Energy",
		marketCap:   "16500100000000",
	},
	{
		name:        "Tata Consultancy Services",
		symbol:      "TCS",
		category:    models.CategoryStock,
		price:       "3680.50",
		metric:      models.MetricPerShare,
		description: "Leading global IT services, consulting and business solutions organization.",
		sector:      "Information Technology",
		marketCap:   "13400000000000",
	},
	{
		name:        "HDFC Bank Ltd",
		symbol:      "HDFCBANK",
		category:    models.CategoryStock,
		price:       "1542.30",
		metric:      models.MetricPerShare,
		description: "Leading private sector bank in India offering banking and financial services.",
		sector:      "Banking",
		marketCap:   "11800000000000",
	},
	{
		name:        "SBI Bluechip Fund",
		symbol:      "SBIBLUECHIP",
		category:    models.CategoryMutualFund,
		price:       "68.45",
		metric:      models.MetricPerUnit,
		description: "Large cap equity mutual fund investing in blue chip companies.",
		sector:      "Mutual Fund",
		marketCap:   "0",
	},
	{
		name:        "HDFC Top 100 Fund",
		symbol:      "HDFCTOP100",
		category:    models.CategoryMutualFund,
		price:       "756.20",
		metric:      models.MetricPerUnit,
		description: "Large cap mutual fund focusing on top 100 companies by market capitalization.",
		sector:      "Mutual Fund",
		marketCap:   "0",
	},
}

// Seed inserts any seed products not already present, generating a synthetic
// price history for each. Idempotent: existing symbols are left untouched.
// Returns the number of products created.
func (s *Service) Seed(ctx context.Context) (int, error) {
	created := 0
	days := s.config.PriceHistoryDays
	if days <= 0 {
		days = defaultHistoryDays
	}

	for _, sp := range seedProducts {
		_, err := s.storage.CatalogStore().GetProductBySymbol(ctx, sp.symbol)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return created, fmt.Errorf("failed to check seed product '%s': %w", sp.symbol, err)
		}

		price := decimal.RequireFromString(sp.price)
		product := &models.Product{
			ID:           uuid.NewString(),
			Name:         sp.name,
			Symbol:       sp.symbol,
			Category:     sp.category,
			PricePerUnit: price,
			Metric:       sp.metric,
			Description:  sp.description,
			Sector:       sp.sector,
			MarketCap:    decimal.RequireFromString(sp.marketCap),
			PriceHistory: generatePriceHistory(price, days),
			IsActive:     true,
		}
		if err := s.storage.CatalogStore().SaveProduct(ctx, product); err != nil {
			return created, fmt.Errorf("failed to seed product '%s': %w", sp.symbol, err)
		}
		created++
	}

	if created > 0 {
		s.logger.Info().Int("created", created).Msg("Catalog seeded")
	}
	return created, nil
}

// generatePriceHistory builds days+1 daily points ending today, each within
// ±5% of the base price, rounded to 2 decimal places.
func generatePriceHistory(base decimal.Decimal, days int) []models.PricePoint {
	history := make([]models.PricePoint, 0, days+1)
	now := time.Now().UTC().Truncate(24 * time.Hour)

	for i := days; i >= 0; i-- {
		variation := decimal.NewFromFloat((rand.Float64() - 0.5) * 0.1)
		price := base.Mul(decimal.NewFromInt(1).Add(variation)).Round(2)
		history = append(history, models.PricePoint{
			Date:  now.AddDate(0, 0, -i),
			Price: price,
		})
	}
	return history
}
