package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Kush-Varshney/NexTrade-Platform/internal/interfaces"
	"github.com/Kush-Varshney/NexTrade-Platform/internal/models"
)

// handleProductList handles GET /api/products.
func (s *Server) handleProductList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if requireUser(w, r) == "" {
		return
	}

	q := r.URL.Query()
	filter := interfaces.ProductFilter{
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if category := q.Get("category"); category != "" && category != "all" {
		filter.Category = models.ProductCategory(category)
	}

	products, err := s.app.CatalogService.List(r.Context(), filter)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(products),
		"data":  products,
	})
}

// routeProducts dispatches /api/products/{id} and its subpaths.
func (s *Server) routeProducts(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	if strings.HasPrefix(path, "category/") {
		s.handleProductsByCategory(w, r, strings.TrimPrefix(path, "category/"))
		return
	}

	if strings.HasSuffix(path, "/chart") {
		s.handleProductChart(w, r, strings.TrimSuffix(path, "/chart"))
		return
	}

	s.handleProductGet(w, r, path)
}

// handleProductGet handles GET /api/products/{id}.
func (s *Server) handleProductGet(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if requireUser(w, r) == "" {
		return
	}

	product, err := s.app.CatalogService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"data": product})
}

// handleProductsByCategory handles GET /api/products/category/{category}.
func (s *Server) handleProductsByCategory(w http.ResponseWriter, r *http.Request, category string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if requireUser(w, r) == "" {
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	products, err := s.app.CatalogService.ByCategory(r.Context(), models.ProductCategory(strings.ToLower(category)), limit)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Unknown category")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(products),
		"data":  products,
	})
}

// handleProductChart handles GET /api/products/{id}/chart, serving a PNG
// rendering of the product's price history.
func (s *Server) handleProductChart(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if requireUser(w, r) == "" {
		return
	}

	png, err := s.app.CatalogService.RenderChart(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
