package watchlist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/storage"
)

func newTestService(t *testing.T) (*Service, interfaces.StorageManager) {
	t.Helper()
	dir := t.TempDir()
	cfg := &common.StorageConfig{
		Users:   common.AreaConfig{Path: filepath.Join(dir, "users")},
		Ledger:  common.AreaConfig{Path: filepath.Join(dir, "ledger")},
		Catalog: common.AreaConfig{Path: filepath.Join(dir, "catalog")},
	}
	mgr, err := storage.NewManager(common.NewSilentLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	return NewService(mgr, common.NewSilentLogger()), mgr
}

func seedProduct(t *testing.T, mgr interfaces.StorageManager, id string, active bool) {
	t.Helper()
	require.NoError(t, mgr.CatalogStore().SaveProduct(context.Background(), &models.Product{
		ID:           id,
		Name:         "Product " + id,
		Symbol:       id,
		Category:     models.CategoryStock,
		PricePerUnit: decimal.NewFromInt(100),
		IsActive:     active,
	}))
}

func TestGetEmptyWatchlist(t *testing.T) {
	svc, _ := newTestService(t)

	wl, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", wl.UserID)
	assert.Empty(t, wl.Items)
}

func TestAddAndRemove(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()
	seedProduct(t, mgr, "AAPL", true)
	seedProduct(t, mgr, "MSFT", true)

	wl, err := svc.Add(ctx, "user-1", "AAPL")
	require.NoError(t, err)
	assert.Len(t, wl.Items, 1)

	wl, err = svc.Add(ctx, "user-1", "MSFT")
	require.NoError(t, err)
	assert.Len(t, wl.Items, 2)
	assert.True(t, wl.Contains("AAPL"))
	assert.True(t, wl.Contains("MSFT"))

	wl, err = svc.Remove(ctx, "user-1", "AAPL")
	require.NoError(t, err)
	assert.Len(t, wl.Items, 1)
	assert.False(t, wl.Contains("AAPL"))

	// Persisted
	wl, err = svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, wl.Items, 1)
}

func TestAddDuplicate(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()
	seedProduct(t, mgr, "AAPL", true)

	_, err := svc.Add(ctx, "user-1", "AAPL")
	require.NoError(t, err)

	_, err = svc.Add(ctx, "user-1", "AAPL")
	assert.ErrorIs(t, err, ErrAlreadyWatched)
}

func TestAddUnknownOrInactiveProduct(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()
	seedProduct(t, mgr, "HALT", false)

	_, err := svc.Add(ctx, "user-1", "NOPE")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Add(ctx, "user-1", "HALT")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemoveMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Remove(context.Background(), "user-1", "AAPL")
	assert.ErrorIs(t, err, ErrNotWatched)
}

func TestWatchlistsAreUserScoped(t *testing.T) {
	svc, mgr := newTestService(t)
	ctx := context.Background()
	seedProduct(t, mgr, "AAPL", true)

	_, err := svc.Add(ctx, "user-1", "AAPL")
	require.NoError(t, err)

	wl, err := svc.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)
}
