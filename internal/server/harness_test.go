package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/app"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/common"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/services/catalog"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/services/ledger"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/services/watchlist"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/storage"
)

// newTestServer builds a Server over temp storage with rate limiting off.
func newTestServer(t *testing.T) (*Server, *app.App) {
	t.Helper()
	dir := t.TempDir()

	cfg := common.NewDefaultConfig()
	cfg.Server.RateLimit = 0
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Storage.Users.Path = filepath.Join(dir, "users")
	cfg.Storage.Ledger.Path = filepath.Join(dir, "ledger")
	cfg.Storage.Catalog.Path = filepath.Join(dir, "catalog")

	logger := common.NewSilentLogger()
	mgr, err := storage.NewManager(logger, &cfg.Storage)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          mgr,
		LedgerEngine:     ledger.NewEngine(mgr, logger, &cfg.Ledger),
		CatalogService:   catalog.NewService(mgr, logger, &cfg.Catalog),
		WatchlistService: watchlist.NewService(mgr, logger),
		StartupTime:      time.Now(),
	}
	return NewServer(a), a
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

// decodeBody unmarshals a recorded JSON response body.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}

// registerUser registers a test user through the API and returns its token and ID.
func registerUser(t *testing.T, srv *Server, email, pan string) (token, userID string) {
	t.Helper()
	rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":       "Test User",
		"email":      email,
		"password":   "secret123",
		"pan_number": pan,
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

	body := decodeBody(t, rr)
	token, _ = body["token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]interface{})
	require.NotNil(t, user)
	userID, _ = user["id"].(string)
	require.NotEmpty(t, userID)
	return token, userID
}

// seedTestProduct stores a product directly and returns its ID.
func seedTestProduct(t *testing.T, a *app.App, symbol, price string) string {
	t.Helper()
	p := &models.Product{
		ID:           "prod-" + symbol,
		Name:         "Product " + symbol,
		Symbol:       symbol,
		Category:     models.CategoryStock,
		PricePerUnit: decimal.RequireFromString(price),
		Metric:       models.MetricPerShare,
		Sector:       "Testing",
		IsActive:     true,
	}
	require.NoError(t, a.Storage.CatalogStore().SaveProduct(context.Background(), p))
	return p.ID
}
