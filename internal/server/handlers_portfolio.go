package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/services/valuation"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/services/watchlist"
)

// valuePositions values each position at its product's current price.
// Delisted products value at zero rather than failing the dashboard.
func (s *Server) valuePositions(r *http.Request, positions []*models.Position) []*models.PositionValue {
	values := make([]*models.PositionValue, 0, len(positions))
	for _, pos := range positions {
		price, err := s.app.CatalogService.CurrentPrice(r.Context(), pos.ProductID)
		if err != nil {
			price = decimal.Zero
		}
		values = append(values, valuation.ValuePosition(pos, price))
	}
	return values
}

// handlePortfolioDashboard handles GET /api/portfolio.
func (s *Server) handlePortfolioDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()
	positions, err := s.app.LedgerEngine.GetPositions(ctx, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch portfolio")
		return
	}

	values := s.valuePositions(r, positions)
	summary := valuation.Summarize(values)

	wl, err := s.app.WatchlistService.Get(ctx, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch watchlist")
		return
	}

	resp := map[string]interface{}{
		"summary":   summary,
		"holdings":  values,
		"watchlist": wl.Items,
	}
	if wallet, err := s.app.LedgerEngine.GetWallet(ctx, userID); err == nil {
		resp["wallet_balance"] = wallet.Balance
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"data": resp})
}

// routePortfolio dispatches /api/portfolio/* subpaths.
func (s *Server) routePortfolio(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/portfolio/")
	switch {
	case path == "":
		s.handlePortfolioDashboard(w, r)
	case path == "watchlist":
		s.handleWatchlist(w, r)
	case strings.HasPrefix(path, "watchlist/"):
		s.handleWatchlistRemove(w, r, strings.TrimPrefix(path, "watchlist/"))
	case strings.HasPrefix(path, "holdings/"):
		s.handleHoldingDetail(w, r, strings.TrimPrefix(path, "holdings/"))
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleHoldingDetail handles GET /api/portfolio/holdings/{productId},
// returning the valued position plus its recent transactions.
func (s *Server) handleHoldingDetail(w http.ResponseWriter, r *http.Request, productID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()
	pos, err := s.app.LedgerEngine.GetPosition(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Holding not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to fetch holding")
		return
	}

	price, err := s.app.CatalogService.CurrentPrice(ctx, productID)
	if err != nil {
		price = decimal.Zero
	}
	value := valuation.ValuePosition(pos, price)

	records, err := s.app.LedgerEngine.GetRecordsForProduct(ctx, userID, productID, 10)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch holding transactions")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"holding":      value,
			"transactions": records,
		},
	})
}

// handleWatchlist handles GET and POST /api/portfolio/watchlist.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	ctx := r.Context()
	if r.Method == http.MethodGet {
		wl, err := s.app.WatchlistService.Get(ctx, userID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to fetch watchlist")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"watchlist": wl.Items})
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		WriteError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	wl, err := s.app.WatchlistService.Add(ctx, userID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, watchlist.ErrAlreadyWatched):
			WriteError(w, http.StatusBadRequest, "Product already in watchlist")
		case errors.Is(err, models.ErrNotFound):
			WriteError(w, http.StatusNotFound, "Product not found or not available")
		default:
			WriteError(w, http.StatusInternalServerError, "Failed to add to watchlist")
		}
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Product added to watchlist",
		"watchlist": wl.Items,
	})
}

// handleWatchlistRemove handles DELETE /api/portfolio/watchlist/{productId}.
func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request, productID string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	wl, err := s.app.WatchlistService.Remove(r.Context(), userID, productID)
	if err != nil {
		if errors.Is(err, watchlist.ErrNotWatched) {
			WriteError(w, http.StatusNotFound, "Product not found in watchlist")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to remove from watchlist")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Product removed from watchlist",
		"watchlist": wl.Items,
	})
}
