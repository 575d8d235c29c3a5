// Package app wires configuration, storage, and services into one unit
// shared by cmd/nextrade-server and the HTTP layer's tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/services/catalog"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/services/ledger"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/services/watchlist"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/storage"
)

// App holds all initialized services and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	LedgerEngine     interfaces.LedgerEngine
	CatalogService   interfaces.CatalogService
	WatchlistService interfaces.WatchlistService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, and all services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Check provided path, NEXTRADE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("NEXTRADE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "nextrade.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/nextrade.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewManager(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          store,
		LedgerEngine:     ledger.NewEngine(store, logger, &config.Ledger),
		CatalogService:   catalog.NewService(store, logger, &config.Catalog),
		WatchlistService: watchlist.NewService(store, logger),
		StartupTime:      time.Now(),
	}

	if config.Catalog.SeedOnStart {
		if _, err := a.CatalogService.Seed(context.Background()); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("version", common.GetVersion()).
		Msg("Application initialized")

	return a, nil
}

// Close releases all resources held by the app.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
