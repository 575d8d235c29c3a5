package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide is the direction of an executed order.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// ValidOrderSide returns true if s is buy or sell.
func ValidOrderSide(s OrderSide) bool {
	return s == SideBuy || s == SideSell
}

// LedgerStatus is the lifecycle state of a ledger record. Completed records
// are immutable; corrections append offsetting records.
type LedgerStatus string

const (
	StatusCompleted LedgerStatus = "completed"
	StatusPending   LedgerStatus = "pending"
	StatusFailed    LedgerStatus = "failed"
	StatusCancelled LedgerStatus = "cancelled"
)

// ValidLedgerStatus returns true if s is a recognised status.
func ValidLedgerStatus(s LedgerStatus) bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// LedgerRecord is one immutable entry per executed order. Append-only:
// records are never edited or deleted once completed.
type LedgerRecord struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ProductID      string          `json:"product_id"`
	Side           OrderSide       `json:"side"`
	Units          decimal.Decimal `json:"units"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Fees           decimal.Decimal `json:"fees"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	RealizedReturn decimal.Decimal `json:"realized_return"` // sells only: units * (price - average cost)
	Status         LedgerStatus    `json:"status"`
	ExecutedAt     time.Time       `json:"executed_at"`
}

// Wallet is a user's cash balance. It lives in the ledger store so that
// balance, position, and ledger record mutate in one transaction. Never
// negative; every change pairs with exactly one ledger record.
type Wallet struct {
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LedgerStats summarises a user's transaction history.
type LedgerStats struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalBuys         int             `json:"total_buys"`
	TotalSells        int             `json:"total_sells"`
	TotalInvested     decimal.Decimal `json:"total_amount_invested"`
	TotalReceived     decimal.Decimal `json:"total_amount_received"`
}
