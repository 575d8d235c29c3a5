package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
)

func TestManagerOpensAllStores(t *testing.T) {
	dir := t.TempDir()
	cfg := &common.StorageConfig{
		Users:   common.AreaConfig{Path: filepath.Join(dir, "users")},
		Ledger:  common.AreaConfig{Path: filepath.Join(dir, "ledger")},
		Catalog: common.AreaConfig{Path: filepath.Join(dir, "catalog")},
	}

	mgr, err := NewManager(common.NewSilentLogger(), cfg)
	require.NoError(t, err)
	defer mgr.Close()

	assert.NotNil(t, mgr.UserStore())
	assert.NotNil(t, mgr.LedgerStore())
	assert.NotNil(t, mgr.CatalogStore())
	assert.NotNil(t, mgr.WatchlistStore())
}

func TestManagerClose(t *testing.T) {
	dir := t.TempDir()
	cfg := &common.StorageConfig{
		Users:   common.AreaConfig{Path: filepath.Join(dir, "users")},
		Ledger:  common.AreaConfig{Path: filepath.Join(dir, "ledger")},
		Catalog: common.AreaConfig{Path: filepath.Join(dir, "catalog")},
	}

	mgr, err := NewManager(common.NewSilentLogger(), cfg)
	require.NoError(t, err)
	assert.NoError(t, mgr.Close())
}
