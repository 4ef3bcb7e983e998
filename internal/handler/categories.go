package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/middleware"
	"github.com/sweetcrumb/storefront/internal/order"
	"go.uber.org/zap"
)

// CategoryHandler handles category listing endpoints.
type CategoryHandler struct {
	catalog CatalogReader
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(c CatalogReader) *CategoryHandler {
	return &CategoryHandler{catalog: c}
}

// RegisterRoutes registers category endpoints on the given Chi router.
// Expected to be mounted at /categories.
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{category}/products", h.Products)
}

type categoryResponse struct {
	Category     string `json:"category"`
	Label        string `json:"label"`
	ProductCount int    `json:"product_count"`
}

// List returns the categories that have products, in display order.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats := h.catalog.Categories()
	resp := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		products, err := h.catalog.ByCategory(c)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("list category", zap.String("category", c), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		resp = append(resp, categoryResponse{Category: c, Label: order.Label(c), ProductCount: len(products)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Products returns the products of one category.
func (h *CategoryHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ByCategory(chi.URLParam(r, "category"))
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			NotFound(w, "category not found")
			return
		}
		middleware.LoggerFromContext(r.Context()).Error("list category products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toProductList(products))
}
