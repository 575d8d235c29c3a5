// Package watchlist provides per-user product watchlist management
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

// Errors returned by watchlist mutations.
var (
	ErrAlreadyWatched = errors.New("product already in watchlist")
	ErrNotWatched     = errors.New("product not in watchlist")
)

// Compile-time interface check
var _ interfaces.WatchlistService = (*Service)(nil)

// Service implements WatchlistService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new watchlist service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Get retrieves the user's watchlist, returning an empty one if the user has
// never added a product.
func (s *Service) Get(ctx context.Context, userID string) (*models.Watchlist, error) {
	wl, err := s.storage.WatchlistStore().GetWatchlist(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return &models.Watchlist{UserID: userID, Items: []models.WatchlistItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}
	return wl, nil
}

// Add puts an active product on the user's watchlist.
func (s *Service) Add(ctx context.Context, userID, productID string) (*models.Watchlist, error) {
	product, err := s.storage.CatalogStore().GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product '%s': %w", productID, models.ErrNotFound)
	}

	wl, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wl.Contains(productID) {
		return nil, fmt.Errorf("product '%s': %w", productID, ErrAlreadyWatched)
	}

	wl.Items = append(wl.Items, models.WatchlistItem{
		ProductID: productID,
		AddedAt:   time.Now().UTC(),
	})
	if err := s.storage.WatchlistStore().SaveWatchlist(ctx, wl); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("product_id", productID).Msg("Watchlist product added")
	return wl, nil
}

// Remove takes a product off the user's watchlist.
func (s *Service) Remove(ctx context.Context, userID, productID string) (*models.Watchlist, error) {
	wl, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !wl.Remove(productID) {
		return nil, fmt.Errorf("product '%s': %w", productID, ErrNotWatched)
	}

	if err := s.storage.WatchlistStore().SaveWatchlist(ctx, wl); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("product_id", productID).Msg("Watchlist product removed")
	return wl, nil
}
