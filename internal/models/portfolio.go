package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// reconcileTolerance is the maximum drift allowed between the incrementally
// maintained invested capital and units * average cost.
var reconcileTolerance = decimal.NewFromFloat(0.01)

// Position represents one user's holding of one product, tracked by units
// and weighted-average cost. Mutated only by the ledger engine; a position
// with zero units is deleted, never stored.
type Position struct {
	UserID          string          `json:"user_id"`
	ProductID       string          `json:"product_id"`
	Units           decimal.Decimal `json:"units"`
	AverageCost     decimal.Decimal `json:"average_cost"`
	InvestedCapital decimal.Decimal `json:"invested_capital"`
	LastUpdated     time.Time       `json:"last_updated"`
}

// Reconciled reports whether InvestedCapital agrees with Units*AverageCost
// within the rounding tolerance. The engine maintains invested capital
// incrementally; this is the invariant check.
func (p *Position) Reconciled() bool {
	expected := p.Units.Mul(p.AverageCost)
	return p.InvestedCapital.Sub(expected).Abs().LessThanOrEqual(reconcileTolerance)
}

// PositionValue is a position augmented with live valuation figures.
type PositionValue struct {
	Position         Position        `json:"position"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	UnrealizedReturn decimal.Decimal `json:"unrealized_return"`
	ReturnPct        decimal.Decimal `json:"return_pct"`
}

// PortfolioSummary aggregates valuation figures across all positions.
type PortfolioSummary struct {
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalCurrentValue decimal.Decimal `json:"total_current_value"`
	TotalReturn       decimal.Decimal `json:"total_return"`
	TotalReturnPct    decimal.Decimal `json:"total_return_pct"`
}

// WatchlistItem is one product a user is tracking.
type WatchlistItem struct {
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// Watchlist stores the products a user is tracking.
type Watchlist struct {
	UserID    string          `json:"user_id"`
	Items     []WatchlistItem `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Contains reports whether productID is already on the watchlist.
func (w *Watchlist) Contains(productID string) bool {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Remove deletes productID from the watchlist, returning true if it was present.
func (w *Watchlist) Remove(productID string) bool {
	for i, item := range w.Items {
		if item.ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return true
		}
	}
	return false
}
