// Package valuation computes portfolio valuations from positions and current
// prices. All functions are pure: no storage access, no mutation of inputs.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ValuePosition values one position at the given current price. Return
// percentage is zero when invested capital is zero, never a division error.
func ValuePosition(pos *models.Position, currentPrice decimal.Decimal) *models.PositionValue {
	currentValue := pos.Units.Mul(currentPrice)
	unrealized := currentValue.Sub(pos.InvestedCapital)

	returnPct := decimal.Zero
	if !pos.InvestedCapital.IsZero() {
		returnPct = unrealized.Div(pos.InvestedCapital).Mul(hundred)
	}

	return &models.PositionValue{
		Position:         *pos,
		CurrentPrice:     currentPrice,
		CurrentValue:     currentValue,
		UnrealizedReturn: unrealized,
		ReturnPct:        returnPct,
	}
}

// Summarize aggregates valued positions into portfolio totals.
func Summarize(values []*models.PositionValue) *models.PortfolioSummary {
	summary := &models.PortfolioSummary{
		TotalInvested:     decimal.Zero,
		TotalCurrentValue: decimal.Zero,
		TotalReturn:       decimal.Zero,
		TotalReturnPct:    decimal.Zero,
	}

	for _, v := range values {
		summary.TotalInvested = summary.TotalInvested.Add(v.Position.InvestedCapital)
		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(v.CurrentValue)
	}
	summary.TotalReturn = summary.TotalCurrentValue.Sub(summary.TotalInvested)
	if !summary.TotalInvested.IsZero() {
		summary.TotalReturnPct = summary.TotalReturn.Div(summary.TotalInvested).Mul(hundred)
	}

	return summary
}
