// Package ledger implements atomic order execution against the ledger store.
//
// ExecuteOrder is the single write path for wallets, positions, and ledger
// records: each order either applies all three mutations or none of them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

const defaultMaxRetries = 3

// Engine implements interfaces.LedgerEngine.
type Engine struct {
	storage    interfaces.StorageManager
	logger     *common.Logger
	opening    decimal.Decimal
	maxRetries int
	locks      *userLocks
}

// NewEngine creates a new ledger engine.
func NewEngine(storage interfaces.StorageManager, logger *common.Logger, cfg *common.LedgerConfig) *Engine {
	opening, err := decimal.NewFromString(cfg.OpeningBalance)
	if err != nil {
		logger.Warn().Str("opening_balance", cfg.OpeningBalance).Msg("Invalid opening balance, defaulting to 100000")
		opening = decimal.NewFromInt(100000)
	}

	retries := cfg.MaxRetries
	if retries < 1 {
		retries = defaultMaxRetries
	}

	return &Engine{
		storage:    storage,
		logger:     logger,
		opening:    opening,
		maxRetries: retries,
		locks:      newUserLocks(),
	}
}

// ExecuteOrder validates and applies one order atomically. Per-user execution
// is serialized, and storage conflicts are retried up to the configured limit
// before surfacing ErrConcurrentModification.
func (e *Engine) ExecuteOrder(ctx context.Context, req interfaces.OrderRequest) (*interfaces.OrderOutcome, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product, err := e.storage.CatalogStore().GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("product '%s': %w", req.ProductID, ErrProductUnavailable)
		}
		return nil, fmt.Errorf("failed to look up product '%s': %w", req.ProductID, err)
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product '%s' is inactive: %w", req.ProductID, ErrProductUnavailable)
	}

	user, err := e.storage.UserStore().GetUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user '%s': %w", req.UserID, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user account is deactivated: %w", ErrInvalidInput)
	}

	release := e.locks.acquire(req.UserID)
	defer release()

	var outcome *interfaces.OrderOutcome
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		outcome = nil
		err = e.storage.LedgerStore().Update(ctx, func(tx interfaces.LedgerTx) error {
			var txErr error
			outcome, txErr = e.applyOrder(tx, req)
			return txErr
		})
		if err == nil {
			e.logger.Info().
				Str("user_id", req.UserID).
				Str("product_id", req.ProductID).
				Str("side", string(req.Side)).
				Str("units", req.Units.String()).
				Str("record_id", outcome.Record.ID).
				Msg("Order executed")
			return outcome, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		e.logger.Warn().
			Str("user_id", req.UserID).
			Int("attempt", attempt).
			Msg("Order hit storage conflict, retrying")
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrConcurrentModification, e.maxRetries)
}

// applyOrder runs inside one storage transaction. Any error aborts the
// transaction with no partial mutation.
func (e *Engine) applyOrder(tx interfaces.LedgerTx, req interfaces.OrderRequest) (*interfaces.OrderOutcome, error) {
	wallet, err := tx.Wallet(req.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	total := req.Units.Mul(req.UnitPrice)

	record := &models.LedgerRecord{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		Side:        req.Side,
		Units:       req.Units,
		UnitPrice:   req.UnitPrice,
		Fees:        decimal.Zero,
		TotalAmount: total,
		Status:      models.StatusCompleted,
		ExecutedAt:  now,
	}

	outcome := &interfaces.OrderOutcome{Record: record}

	if req.Side == models.SideBuy {
		if wallet.Balance.LessThan(total) {
			return nil, &InsufficientFundsError{Required: total, Available: wallet.Balance}
		}

		position, err := tx.Position(req.UserID, req.ProductID)
		if errors.Is(err, models.ErrNotFound) {
			position = &models.Position{
				UserID:          req.UserID,
				ProductID:       req.ProductID,
				Units:           decimal.Zero,
				AverageCost:     decimal.Zero,
				InvestedCapital: decimal.Zero,
			}
		} else if err != nil {
			return nil, err
		}

		// Weighted-average cost: fold the new lot into invested capital
		// and rederive the average from the totals.
		newUnits := position.Units.Add(req.Units)
		newInvested := position.InvestedCapital.Add(total)
		position.Units = newUnits
		position.InvestedCapital = newInvested
		position.AverageCost = newInvested.Div(newUnits)
		position.LastUpdated = now

		wallet.Balance = wallet.Balance.Sub(total)

		if err := tx.PutPosition(position); err != nil {
			return nil, err
		}
		outcome.Position = position
	} else {
		position, err := tx.Position(req.UserID, req.ProductID)
		if errors.Is(err, models.ErrNotFound) {
			return nil, &InsufficientHoldingsError{Available: decimal.Zero, Requested: req.Units}
		} else if err != nil {
			return nil, err
		}
		if position.Units.LessThan(req.Units) {
			return nil, &InsufficientHoldingsError{Available: position.Units, Requested: req.Units}
		}

		record.RealizedReturn = req.Units.Mul(req.UnitPrice.Sub(position.AverageCost))

		remaining := position.Units.Sub(req.Units)
		if remaining.IsZero() {
			// A position at zero units is deleted, never stored.
			if err := tx.DeletePosition(req.UserID, req.ProductID); err != nil {
				return nil, err
			}
		} else {
			// Average cost is unchanged by sells; invested capital drops
			// by the cost basis of the units sold.
			position.Units = remaining
			position.InvestedCapital = position.InvestedCapital.Sub(req.Units.Mul(position.AverageCost))
			position.LastUpdated = now
			if err := tx.PutPosition(position); err != nil {
				return nil, err
			}
			outcome.Position = position
		}

		wallet.Balance = wallet.Balance.Add(total)
	}

	wallet.UpdatedAt = now
	if err := tx.PutWallet(wallet); err != nil {
		return nil, err
	}
	if err := tx.AppendRecord(record); err != nil {
		return nil, err
	}

	outcome.Wallet = wallet
	return outcome, nil
}

// CreateWallet opens a wallet with the configured opening balance. Fails with
// models.ErrAlreadyExists if the user already has one.
func (e *Engine) CreateWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return e.storage.LedgerStore().CreateWallet(ctx, userID, e.opening)
}

// GetWallet returns the user's wallet.
func (e *Engine) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return e.storage.LedgerStore().GetWallet(ctx, userID)
}

// GetPositions returns all open positions for the user.
func (e *Engine) GetPositions(ctx context.Context, userID string) ([]*models.Position, error) {
	return e.storage.LedgerStore().ListPositions(ctx, userID)
}

// GetPosition returns one position, or models.ErrNotFound.
func (e *Engine) GetPosition(ctx context.Context, userID, productID string) (*models.Position, error) {
	return e.storage.LedgerStore().GetPosition(ctx, userID, productID)
}

// GetLedger returns a page of the user's ledger records, newest first.
func (e *Engine) GetLedger(ctx context.Context, userID string, filter interfaces.LedgerFilter) ([]*models.LedgerRecord, int, error) {
	return e.storage.LedgerStore().ListRecords(ctx, userID, filter)
}

// GetRecord returns one ledger record scoped to the user.
func (e *Engine) GetRecord(ctx context.Context, userID, recordID string) (*models.LedgerRecord, error) {
	return e.storage.LedgerStore().GetRecord(ctx, userID, recordID)
}

// GetRecordsForProduct returns recent completed records for one product.
func (e *Engine) GetRecordsForProduct(ctx context.Context, userID, productID string, limit int) ([]*models.LedgerRecord, error) {
	return e.storage.LedgerStore().ListRecordsForProduct(ctx, userID, productID, limit)
}

// Stats aggregates the user's ledger records regardless of status.
func (e *Engine) Stats(ctx context.Context, userID string) (*models.LedgerStats, error) {
	records, _, err := e.storage.LedgerStore().ListRecords(ctx, userID, interfaces.LedgerFilter{})
	if err != nil {
		return nil, err
	}

	stats := &models.LedgerStats{
		TotalInvested: decimal.Zero,
		TotalReceived: decimal.Zero,
	}
	for _, rec := range records {
		stats.TotalTransactions++
		switch rec.Side {
		case models.SideBuy:
			stats.TotalBuys++
			stats.TotalInvested = stats.TotalInvested.Add(rec.TotalAmount)
		case models.SideSell:
			stats.TotalSells++
			stats.TotalReceived = stats.TotalReceived.Add(rec.TotalAmount)
		}
	}
	return stats, nil
}

func validateRequest(req interfaces.OrderRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}
	if req.ProductID == "" {
		return fmt.Errorf("product id is required: %w", ErrInvalidInput)
	}
	if !models.ValidOrderSide(req.Side) {
		return fmt.Errorf("side must be buy or sell: %w", ErrInvalidInput)
	}
	if !req.Units.IsPositive() {
		return fmt.Errorf("units must be greater than zero: %w", ErrInvalidInput)
	}
	if !req.UnitPrice.IsPositive() {
		return fmt.Errorf("unit price must be greater than zero: %w", ErrInvalidInput)
	}
	return nil
}

// Compile-time interface check
var _ interfaces.LedgerEngine = (*Engine)(nil)
