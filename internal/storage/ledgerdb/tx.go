package ledgerdb

import (
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

// ledgerTx implements interfaces.LedgerTx over one Badger transaction.
type ledgerTx struct {
	store *Store
	txn   *badger.Txn
}

func (t *ledgerTx) Wallet(userID string) (*models.Wallet, error) {
	var w models.Wallet
	if err := t.store.db.TxGet(t.txn, walletKey(userID), &w); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("wallet for user '%s': %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read wallet for user '%s': %w", userID, err)
	}
	return &w, nil
}

func (t *ledgerTx) Position(userID, productID string) (*models.Position, error) {
	var p models.Position
	if err := t.store.db.TxGet(t.txn, positionKey(userID, productID), &p); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("position %s/%s: %w", userID, productID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read position %s/%s: %w", userID, productID, err)
	}
	return &p, nil
}

func (t *ledgerTx) PutWallet(w *models.Wallet) error {
	if err := t.store.db.TxUpsert(t.txn, walletKey(w.UserID), w); err != nil {
		return fmt.Errorf("failed to write wallet for user '%s': %w", w.UserID, err)
	}
	return nil
}

func (t *ledgerTx) PutPosition(p *models.Position) error {
	if err := t.store.db.TxUpsert(t.txn, positionKey(p.UserID, p.ProductID), p); err != nil {
		return fmt.Errorf("failed to write position %s/%s: %w", p.UserID, p.ProductID, err)
	}
	return nil
}

func (t *ledgerTx) DeletePosition(userID, productID string) error {
	err := t.store.db.TxDelete(t.txn, positionKey(userID, productID), models.Position{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete position %s/%s: %w", userID, productID, err)
	}
	return nil
}

func (t *ledgerTx) AppendRecord(rec *models.LedgerRecord) error {
	if err := t.store.db.TxInsert(t.txn, recordKey(rec.ID), rec); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("ledger record '%s': %w", rec.ID, models.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to append ledger record '%s': %w", rec.ID, err)
	}
	return nil
}

// Compile-time interface check
var _ interfaces.LedgerTx = (*ledgerTx)(nil)
