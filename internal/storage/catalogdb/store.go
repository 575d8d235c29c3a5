// Package catalogdb implements CatalogStore using BadgerHold.
package catalogdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

// Store implements interfaces.CatalogStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (creating if needed) a catalog store at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalogdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("CatalogDB opened")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.Get(id, &p); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("product '%s': %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product '%s': %w", id, err)
	}
	return &p, nil
}

func (s *Store) GetProductBySymbol(_ context.Context, symbol string) (*models.Product, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var all []models.Product
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	for i := range all {
		if all[i].Symbol == symbol {
			p := all[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with symbol '%s': %w", symbol, models.ErrNotFound)
}

func (s *Store) SaveProduct(_ context.Context, p *models.Product) error {
	now := time.Now()
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	if err := s.db.Upsert(p.ID, p); err != nil {
		return fmt.Errorf("failed to save product '%s': %w", p.ID, err)
	}
	return nil
}

func (s *Store) ListProducts(_ context.Context) ([]*models.Product, error) {
	var all []models.Product
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	result := make([]*models.Product, 0, len(all))
	for i := range all {
		p := all[i]
		result = append(result, &p)
	}
	return result, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	if err := s.db.Delete(id, models.Product{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete product '%s': %w", id, err)
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

// Compile-time interface check
var _ interfaces.CatalogStore = (*Store)(nil)
