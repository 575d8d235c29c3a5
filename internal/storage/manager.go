// Package storage wires the BadgerHold-backed stores into a StorageManager.
package storage

import (
	"fmt"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/storage/catalogdb"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/storage/ledgerdb"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/storage/userdb"
)

// Manager implements interfaces.StorageManager over three embedded stores.
type Manager struct {
	users   *userdb.Store
	ledger  *ledgerdb.Store
	catalog *catalogdb.Store
	logger  *common.Logger
}

// NewManager opens all storage areas from config.
func NewManager(logger *common.Logger, cfg *common.StorageConfig) (*Manager, error) {
	users, err := userdb.NewStore(logger, cfg.Users.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}

	ledger, err := ledgerdb.NewStore(logger, cfg.Ledger.Path)
	if err != nil {
		users.Close()
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}

	catalog, err := catalogdb.NewStore(logger, cfg.Catalog.Path)
	if err != nil {
		users.Close()
		ledger.Close()
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}

	return &Manager{
		users:   users,
		ledger:  ledger,
		catalog: catalog,
		logger:  logger,
	}, nil
}

func (m *Manager) UserStore() interfaces.UserStore           { return m.users }
func (m *Manager) LedgerStore() interfaces.LedgerStore       { return m.ledger }
func (m *Manager) CatalogStore() interfaces.CatalogStore     { return m.catalog }
func (m *Manager) WatchlistStore() interfaces.WatchlistStore { return m.ledger }

// Close shuts down all stores, returning the first error encountered.
func (m *Manager) Close() error {
	var firstErr error
	for _, c := range []interface{ Close() error }{m.users, m.ledger, m.catalog} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Compile-time interface check
var _ interfaces.StorageManager = (*Manager)(nil)
