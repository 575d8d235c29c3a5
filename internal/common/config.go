package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for NexTrade
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Auth        AuthConfig    `toml:"auth"`
	Ledger      LedgerConfig  `toml:"ledger"`
	Catalog     CatalogConfig `toml:"catalog"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string  `toml:"host"`
	Port           int     `toml:"port"`
	RateLimit      float64 `toml:"rate_limit"` // requests per second per client, 0 disables
	RateLimitBurst int     `toml:"rate_limit_burst"`
}

// StorageConfig holds path configuration for the 3 storage areas.
type StorageConfig struct {
	Users   AreaConfig `toml:"users"`   // user accounts (BadgerHold)
	Ledger  AreaConfig `toml:"ledger"`  // wallets + positions + ledger records (BadgerHold)
	Catalog AreaConfig `toml:"catalog"` // product catalog (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// AuthConfig holds authentication configuration for JWT issuance.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LedgerConfig holds ledger engine configuration.
type LedgerConfig struct {
	OpeningBalance string `toml:"opening_balance"` // decimal string, credited to new wallets
	MaxRetries     int    `toml:"max_retries"`     // attempts on storage conflict before failing
}

// CatalogConfig holds product catalog configuration.
type CatalogConfig struct {
	SeedOnStart      bool `toml:"seed_on_start"`
	PriceHistoryDays int  `toml:"price_history_days"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			RateLimit:      20,
			RateLimitBurst: 40,
		},
		Storage: StorageConfig{
			Users:   AreaConfig{Path: "data/users"},
			Ledger:  AreaConfig{Path: "data/ledger"},
			Catalog: AreaConfig{Path: "data/catalog"},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Ledger: LedgerConfig{
			OpeningBalance: "100000",
			MaxRetries:     3,
		},
		Catalog: CatalogConfig{
			SeedOnStart:      true,
			PriceHistoryDays: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Expand ${ENV_VAR} references before decoding
		expanded := os.Expand(string(data), func(key string) string {
			return os.Getenv(key)
		})

		if err := toml.Unmarshal([]byte(expanded), config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NEXTRADE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("NEXTRADE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("NEXTRADE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("NEXTRADE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("NEXTRADE_DATA_PATH"); path != "" {
		config.Storage.Users.Path = filepath.Join(path, "users")
		config.Storage.Ledger.Path = filepath.Join(path, "ledger")
		config.Storage.Catalog.Path = filepath.Join(path, "catalog")
	}

	if v := os.Getenv("NEXTRADE_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("NEXTRADE_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
	if v := os.Getenv("NEXTRADE_OPENING_BALANCE"); v != "" {
		config.Ledger.OpeningBalance = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
