package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

// OrderRequest carries one validated buy or sell order into the ledger
// engine. UnitPrice is the current catalog price, resolved by the caller at
// execution time.
type OrderRequest struct {
	UserID    string
	ProductID string
	Side      models.OrderSide
	Units     decimal.Decimal
	UnitPrice decimal.Decimal
}

// OrderOutcome is the post-mutation state returned on success.
type OrderOutcome struct {
	Record   *models.LedgerRecord `json:"record"`
	Wallet   *models.Wallet       `json:"wallet"`
	Position *models.Position     `json:"position,omitempty"` // nil when the sell closed the position
}

// LedgerEngine executes orders atomically and serves portfolio/ledger reads.
type LedgerEngine interface {
	// ExecuteOrder validates and applies one order as a single atomic unit:
	// wallet, position, and ledger record change together or not at all.
	ExecuteOrder(ctx context.Context, req OrderRequest) (*OrderOutcome, error)

	CreateWallet(ctx context.Context, userID string) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
	GetPositions(ctx context.Context, userID string) ([]*models.Position, error)
	GetPosition(ctx context.Context, userID, productID string) (*models.Position, error)
	GetLedger(ctx context.Context, userID string, filter LedgerFilter) ([]*models.LedgerRecord, int, error)
	GetRecord(ctx context.Context, userID, recordID string) (*models.LedgerRecord, error)
	GetRecordsForProduct(ctx context.Context, userID, productID string, limit int) ([]*models.LedgerRecord, error)
	Stats(ctx context.Context, userID string) (*models.LedgerStats, error)
}

// ProductFilter configures catalog listing.
type ProductFilter struct {
	Category  models.ProductCategory // empty matches all
	Search    string                 // case-insensitive over name/symbol/sector
	SortBy    string                 // name (default), symbol, price_per_unit, market_cap
	SortOrder string                 // asc (default), desc
}

// CatalogService manages the product catalog and price lookups.
type CatalogService interface {
	List(ctx context.Context, filter ProductFilter) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	ByCategory(ctx context.Context, category models.ProductCategory, limit int) ([]*models.Product, error)
	// CurrentPrice returns the quoted price for an active product, or
	// models.ErrNotFound when the product is missing or inactive.
	CurrentPrice(ctx context.Context, productID string) (decimal.Decimal, error)
	// RenderChart renders the product's price history as a PNG.
	RenderChart(ctx context.Context, productID string) ([]byte, error)
	Seed(ctx context.Context) (int, error)
}

// WatchlistService manages per-user watchlists.
type WatchlistService interface {
	Get(ctx context.Context, userID string) (*models.Watchlist, error)
	Add(ctx context.Context, userID, productID string) (*models.Watchlist, error)
	Remove(ctx context.Context, userID, productID string) (*models.Watchlist, error)
}
