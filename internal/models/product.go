package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory classifies a tradable product.
type ProductCategory string

const (
	CategoryStock      ProductCategory = "stock"
	CategoryMutualFund ProductCategory = "mutual_fund"
)

// ValidProductCategory returns true if c is a recognised category.
func ValidProductCategory(c ProductCategory) bool {
	return c == CategoryStock || c == CategoryMutualFund
}

// PriceMetric describes the unit the quoted price refers to.
type PriceMetric string

const (
	MetricPerShare PriceMetric = "per_share"
	MetricPerUnit  PriceMetric = "per_unit"
)

// PricePoint is one entry in a product's synthetic price history.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// Product represents a tradable instrument in the catalog.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"` // unique, uppercase
	Category     ProductCategory `json:"category"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Metric       PriceMetric     `json:"metric"`
	Description  string          `json:"description,omitempty"`
	Sector       string          `json:"sector,omitempty"`
	MarketCap    decimal.Decimal `json:"market_cap,omitempty"`
	PriceHistory []PricePoint    `json:"price_history,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Matches reports whether the product matches a case-insensitive search
// term over name, symbol, and sector.
func (p *Product) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Symbol), term) ||
		strings.Contains(strings.ToLower(p.Sector), term)
}

// WithoutHistory returns a shallow copy with the price history stripped,
// for list views.
func (p *Product) WithoutHistory() *Product {
	cp := *p
	cp.PriceHistory = nil
	return &cp
}
