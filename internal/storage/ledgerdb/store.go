// Package ledgerdb persists wallets, positions, and ledger records in one
// BadgerHold store so a single Badger transaction can mutate all three.
package ledgerdb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"
	"github.com/timshannon/badgerhold/v4"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

// keySep is the composite key separator. A null byte prevents collisions
// when IDs contain ":" characters.
const keySep = "\x00"

// Store implements interfaces.LedgerStore and interfaces.WatchlistStore
// using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (creating if needed) a ledger store at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledgerdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledgerdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("LedgerDB opened")
	return &Store{db: db, logger: logger}, nil
}

func walletKey(userID string) string {
	return "wallet" + keySep + userID
}

func positionKey(userID, productID string) string {
	return "position" + keySep + userID + keySep + productID
}

func recordKey(recordID string) string {
	return "record" + keySep + recordID
}

func watchlistKey(userID string) string {
	return "watchlist" + keySep + userID
}

// Update runs fn inside one Badger read-write transaction. All reads and
// writes made through the LedgerTx commit together; a serialization conflict
// is reported as models.ErrConflict.
func (s *Store) Update(_ context.Context, fn func(tx interfaces.LedgerTx) error) error {
	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		return fn(&ledgerTx{store: s, txn: txn})
	})
	if err == badger.ErrConflict {
		return models.ErrConflict
	}
	return err
}

func (s *Store) GetWallet(_ context.Context, userID string) (*models.Wallet, error) {
	var w models.Wallet
	if err := s.db.Get(walletKey(userID), &w); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("wallet for user '%s': %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wallet for user '%s': %w", userID, err)
	}
	return &w, nil
}

// CreateWallet creates a wallet with the opening balance. Creating a wallet
// that already exists is an error; registration is the only caller.
func (s *Store) CreateWallet(_ context.Context, userID string, opening decimal.Decimal) (*models.Wallet, error) {
	w := models.Wallet{
		UserID:    userID,
		Balance:   opening,
		UpdatedAt: time.Now(),
	}
	if err := s.db.Insert(walletKey(userID), &w); err != nil {
		if err == badgerhold.ErrKeyExists {
			return nil, fmt.Errorf("wallet for user '%s': %w", userID, models.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create wallet for user '%s': %w", userID, err)
	}
	return &w, nil
}

func (s *Store) GetPosition(_ context.Context, userID, productID string) (*models.Position, error) {
	var p models.Position
	if err := s.db.Get(positionKey(userID, productID), &p); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("position %s/%s: %w", userID, productID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get position %s/%s: %w", userID, productID, err)
	}
	return &p, nil
}

func (s *Store) ListPositions(_ context.Context, userID string) ([]*models.Position, error) {
	var all []models.Position
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	var result []*models.Position
	for i := range all {
		if all[i].UserID == userID {
			p := all[i]
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ProductID < result[j].ProductID
	})
	return result, nil
}

func (s *Store) GetRecord(_ context.Context, userID, recordID string) (*models.LedgerRecord, error) {
	var rec models.LedgerRecord
	if err := s.db.Get(recordKey(recordID), &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("ledger record '%s': %w", recordID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ledger record '%s': %w", recordID, err)
	}
	// Records are user-scoped — reading another user's record is a not-found,
	// not a permission error, matching the lookup-by-owner semantics.
	if rec.UserID != userID {
		return nil, fmt.Errorf("ledger record '%s': %w", recordID, models.ErrNotFound)
	}
	return &rec, nil
}

func (s *Store) ListRecords(_ context.Context, userID string, filter interfaces.LedgerFilter) ([]*models.LedgerRecord, int, error) {
	var all []models.LedgerRecord
	if err := s.db.Find(&all, nil); err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger records: %w", err)
	}

	var matched []*models.LedgerRecord
	for i := range all {
		rec := all[i]
		if rec.UserID != userID {
			continue
		}
		if filter.Side != "" && rec.Side != filter.Side {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		matched = append(matched, &rec)
	}

	// Newest first
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ExecutedAt.After(matched[j].ExecutedAt)
	})

	total := len(matched)

	// Paginate
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.Limit
		if start >= total {
			return []*models.LedgerRecord{}, total, nil
		}
		end := start + filter.Limit
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}

	return matched, total, nil
}

func (s *Store) ListRecordsForProduct(_ context.Context, userID, productID string, limit int) ([]*models.LedgerRecord, error) {
	var all []models.LedgerRecord
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list ledger records: %w", err)
	}

	var matched []*models.LedgerRecord
	for i := range all {
		rec := all[i]
		if rec.UserID == userID && rec.ProductID == productID && rec.Status == models.StatusCompleted {
			matched = append(matched, &rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ExecutedAt.After(matched[j].ExecutedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Store) GetWatchlist(_ context.Context, userID string) (*models.Watchlist, error) {
	var wl models.Watchlist
	if err := s.db.Get(watchlistKey(userID), &wl); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("watchlist for user '%s': %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get watchlist for user '%s': %w", userID, err)
	}
	return &wl, nil
}

func (s *Store) SaveWatchlist(_ context.Context, wl *models.Watchlist) error {
	wl.UpdatedAt = time.Now()
	if err := s.db.Upsert(watchlistKey(wl.UserID), wl); err != nil {
		return fmt.Errorf("failed to save watchlist for user '%s': %w", wl.UserID, err)
	}
	return nil
}

func (s *Store) DeleteWatchlist(_ context.Context, userID string) error {
	if err := s.db.Delete(watchlistKey(userID), models.Watchlist{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete watchlist for user '%s': %w", userID, err)
	}
	return nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time interface checks
var (
	_ interfaces.LedgerStore    = (*Store)(nil)
	_ interfaces.WatchlistStore = (*Store)(nil)
)
