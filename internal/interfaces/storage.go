// Package interfaces defines service and storage contracts for NexTrade
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	UserStore() UserStore
	LedgerStore() LedgerStore
	CatalogStore() CatalogStore
	WatchlistStore() WatchlistStore

	// Lifecycle
	Close() error
}

// UserStore manages user accounts.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByPAN(ctx context.Context, pan string) (*models.User, error)
	// CreateUser inserts a new user, failing with models.ErrAlreadyExists
	// if the email or PAN is already registered.
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)
	Close() error
}

// LedgerTx provides reads and writes inside one atomic ledger transaction.
// Everything done through a LedgerTx commits together or not at all.
type LedgerTx interface {
	Wallet(userID string) (*models.Wallet, error)
	Position(userID, productID string) (*models.Position, error)
	PutWallet(w *models.Wallet) error
	PutPosition(p *models.Position) error
	DeletePosition(userID, productID string) error
	AppendRecord(rec *models.LedgerRecord) error
}

// LedgerFilter configures ledger record listing.
type LedgerFilter struct {
	Side   models.OrderSide    // empty matches all
	Status models.LedgerStatus // empty matches all
	Page   int                 // 1-based
	Limit  int
}

// LedgerStore persists wallets, positions, and ledger records. The three
// record types share one store so Update can mutate them in a single
// transaction.
type LedgerStore interface {
	// Update runs fn inside one atomic read-write transaction. A concurrency
	// conflict surfaces as models.ErrConflict and may be retried.
	Update(ctx context.Context, fn func(tx LedgerTx) error) error

	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
	CreateWallet(ctx context.Context, userID string, opening decimal.Decimal) (*models.Wallet, error)

	GetPosition(ctx context.Context, userID, productID string) (*models.Position, error)
	ListPositions(ctx context.Context, userID string) ([]*models.Position, error)

	GetRecord(ctx context.Context, userID, recordID string) (*models.LedgerRecord, error)
	// ListRecords returns matching records newest-first plus the total match
	// count before pagination.
	ListRecords(ctx context.Context, userID string, filter LedgerFilter) ([]*models.LedgerRecord, int, error)
	// ListRecordsForProduct returns up to limit completed records for one
	// (user, product) pair, newest-first. limit <= 0 means all.
	ListRecordsForProduct(ctx context.Context, userID, productID string, limit int) ([]*models.LedgerRecord, error)

	Close() error
}

// CatalogStore persists the product catalog.
type CatalogStore interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductBySymbol(ctx context.Context, symbol string) (*models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	ListProducts(ctx context.Context) ([]*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Close() error
}

// WatchlistStore persists per-user watchlists.
type WatchlistStore interface {
	GetWatchlist(ctx context.Context, userID string) (*models.Watchlist, error)
	SaveWatchlist(ctx context.Context, wl *models.Watchlist) error
	DeleteWatchlist(ctx context.Context, userID string) error
}
