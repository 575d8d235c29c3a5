package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/services/ledger"
)

// orderRequestBody is the JSON body for buy and sell endpoints.
type orderRequestBody struct {
	ProductID string          `json:"product_id"`
	Units     decimal.Decimal `json:"units"`
}

// handleTransactionBuy handles POST /api/transactions/buy.
func (s *Server) handleTransactionBuy(w http.ResponseWriter, r *http.Request) {
	s.executeOrder(w, r, models.SideBuy, "Purchase completed successfully")
}

// handleTransactionSell handles POST /api/transactions/sell.
func (s *Server) handleTransactionSell(w http.ResponseWriter, r *http.Request) {
	s.executeOrder(w, r, models.SideSell, "Sale completed successfully")
}

// executeOrder resolves the current price and runs one order through the
// ledger engine, mapping engine errors to HTTP statuses.
func (s *Server) executeOrder(w http.ResponseWriter, r *http.Request, side models.OrderSide, successMsg string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	var body orderRequestBody
	if !DecodeJSON(w, r, &body) {
		return
	}
	if body.ProductID == "" {
		WriteError(w, http.StatusBadRequest, "Product ID is required")
		return
	}
	if !body.Units.IsPositive() {
		WriteError(w, http.StatusBadRequest, "Units must be greater than 0")
		return
	}

	ctx := r.Context()
	price, err := s.app.CatalogService.CurrentPrice(ctx, body.ProductID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found or not available")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to resolve product price")
		return
	}

	outcome, err := s.app.LedgerEngine.ExecuteOrder(ctx, interfaces.OrderRequest{
		UserID:    userID,
		ProductID: body.ProductID,
		Side:      side,
		Units:     body.Units,
		UnitPrice: price,
	})
	if err != nil {
		s.writeOrderError(w, err)
		return
	}

	resp := map[string]interface{}{
		"message":            successMsg,
		"transaction":        outcome.Record,
		"new_wallet_balance": outcome.Wallet.Balance,
	}
	if outcome.Position != nil {
		resp["position"] = outcome.Position
	}
	WriteJSON(w, http.StatusCreated, resp)
}

// writeOrderError maps ledger engine errors to HTTP responses.
func (s *Server) writeOrderError(w http.ResponseWriter, err error) {
	var funds *ledger.InsufficientFundsError
	if errors.As(err, &funds) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     "Insufficient wallet balance",
			Required:  funds.Required.StringFixed(2),
			Available: funds.Available.StringFixed(2),
		})
		return
	}

	var holdings *ledger.InsufficientHoldingsError
	if errors.As(err, &holdings) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     "Insufficient units to sell",
			Available: holdings.Available.String(),
			Requested: holdings.Requested.String(),
		})
		return
	}

	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrProductUnavailable):
		WriteError(w, http.StatusNotFound, "Product not found or not available")
	case errors.Is(err, ledger.ErrConcurrentModification):
		WriteError(w, http.StatusConflict, "Order conflicted with concurrent activity, please retry")
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Wallet not found")
	default:
		s.logger.Error().Err(err).Msg("Order execution failed")
		WriteError(w, http.StatusInternalServerError, "Server error processing order")
	}
}

// handleTransactionList handles GET /api/transactions.
func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	q := r.URL.Query()
	page := 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		page = v
	}
	limit := 10
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}

	filter := interfaces.LedgerFilter{
		Side:   models.OrderSide(q.Get("type")),
		Status: models.LedgerStatus(q.Get("status")),
		Page:   page,
		Limit:  limit,
	}

	records, total, err := s.app.LedgerEngine.GetLedger(r.Context(), userID, filter)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	totalPages := (total + limit - 1) / limit
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": records,
		"pagination": map[string]interface{}{
			"current_page":       page,
			"total_pages":        totalPages,
			"total_transactions": total,
			"has_next_page":      page < totalPages,
			"has_prev_page":      page > 1,
		},
	})
}

// routeTransactions dispatches /api/transactions/{id} and subpaths.
func (s *Server) routeTransactions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	switch path {
	case "buy":
		s.handleTransactionBuy(w, r)
	case "sell":
		s.handleTransactionSell(w, r)
	case "summary/stats":
		s.handleTransactionStats(w, r)
	case "":
		s.handleTransactionList(w, r)
	default:
		s.handleTransactionGet(w, r, path)
	}
}

// handleTransactionGet handles GET /api/transactions/{id}.
func (s *Server) handleTransactionGet(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	record, err := s.app.LedgerEngine.GetRecord(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to fetch transaction")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"data": record})
}

// handleTransactionStats handles GET /api/transactions/summary/stats.
func (s *Server) handleTransactionStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := requireUser(w, r)
	if userID == "" {
		return
	}

	stats, err := s.app.LedgerEngine.Stats(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch transaction statistics")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"data": stats})
}
