package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sweetcrumb/storefront/internal/cart"
	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/middleware"
	"github.com/sweetcrumb/storefront/internal/pricing"
	"go.uber.org/zap"
)

// CatalogReader defines the catalog lookups needed by product handlers.
// Satisfied by *catalog.Catalog; narrow interface for testability.
type CatalogReader interface {
	Products() []catalog.Product
	Product(id string) (catalog.Product, error)
	ByCategory(category string) ([]catalog.Product, error)
	Categories() []string
}

// ProductSearcher resolves free-text queries. Satisfied by *matcher.Matcher.
type ProductSearcher interface {
	Search(text string) []catalog.Product
}

// ProductHandler handles catalog reads and price quotes.
type ProductHandler struct {
	catalog CatalogReader
	search  ProductSearcher
}

// NewProductHandler creates a new ProductHandler. search may be nil, in
// which case ?q= is ignored.
func NewProductHandler(c CatalogReader, search ProductSearcher) *ProductHandler {
	return &ProductHandler{catalog: c, search: search}
}

// RegisterRoutes registers product endpoints on the given Chi router.
// Expected to be mounted at /products.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/quote", h.Quote)
	r.Post("/{id}/items", h.BuildItem)
}

// --- Request / Response types ---

type sizeResponse struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description,omitempty"`
	Units       int    `json:"units,omitempty"`
}

type flavorResponse struct {
	Name            string `json:"name"`
	PriceAdjustment string `json:"price_adjustment"`
}

type toppingResponse struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type productResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	DisplayPrice string            `json:"display_price"`
	Image        string            `json:"image"`
	Video        *string           `json:"video"`
	Category     string            `json:"category"`
	Kind         string            `json:"kind"`
	BasePrice    string            `json:"base_price"`
	Sizes        []sizeResponse    `json:"sizes"`
	Flavors      []flavorResponse  `json:"flavors"`
	Toppings     []toppingResponse `json:"toppings"`
	SubItems     []catalog.SubItem `json:"sub_items"`
}

func toProductResponse(p catalog.Product) productResponse {
	resp := productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		DisplayPrice: p.DisplayPrice,
		Image:        p.Image,
		Category:     p.Category,
		Kind:         p.Kind,
		// Always format with 2 decimal places for consistent money representation.
		BasePrice: p.BasePrice.StringFixed(2),
		Sizes:     make([]sizeResponse, len(p.Sizes)),
		Flavors:   make([]flavorResponse, len(p.Flavors)),
		Toppings:  make([]toppingResponse, len(p.Toppings)),
		SubItems:  make([]catalog.SubItem, len(p.SubItems)),
	}
	if p.Video != "" {
		resp.Video = &p.Video
	}
	for i, s := range p.Sizes {
		resp.Sizes[i] = sizeResponse{Name: s.Name, Price: s.Price.StringFixed(2), Description: s.Description, Units: s.Units}
	}
	for i, f := range p.Flavors {
		resp.Flavors[i] = flavorResponse{Name: f.Name, PriceAdjustment: f.PriceAdjustment.StringFixed(2)}
	}
	for i, t := range p.Toppings {
		resp.Toppings[i] = toppingResponse{Name: t.Name, Price: t.Price.StringFixed(2)}
	}
	copy(resp.SubItems, p.SubItems)
	return resp
}

func toProductList(products []catalog.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	return resp
}

type quoteResponse struct {
	ProductID string         `json:"product_id"`
	Kind      string         `json:"kind"`
	Price     string         `json:"price"`
	Subtotal  string         `json:"subtotal"`
	Savings   *string        `json:"savings"`
	CanSubmit bool           `json:"can_submit"`
	Selection cart.Selection `json:"selection"`
	Item      *cart.Item     `json:"item"`
}

func toQuoteResponse(q pricing.Quotation) quoteResponse {
	resp := quoteResponse{
		ProductID: q.ProductID,
		Kind:      q.Kind,
		Price:     q.Price.StringFixed(2),
		Subtotal:  q.Subtotal.StringFixed(2),
		CanSubmit: q.CanSubmit,
		Selection: q.Selection,
		Item:      q.Item,
	}
	if q.Savings.Valid {
		s := q.Savings.Decimal.StringFixed(2)
		resp.Savings = &s
	}
	return resp
}

// --- Helpers ---

// isPicksError checks if the error came from invalid picks and should
// result in 422 Unprocessable Entity.
func isPicksError(err error) bool {
	return errors.Is(err, pricing.ErrUnknownOption) ||
		errors.Is(err, pricing.ErrInvalidCount)
}

// quote loads the product and prices the request picks. It writes the
// error response itself and reports whether the caller should go on.
func (h *ProductHandler) quote(w http.ResponseWriter, r *http.Request) (pricing.Quotation, bool) {
	product, err := h.catalog.Product(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			NotFound(w, "product not found")
			return pricing.Quotation{}, false
		}
		middleware.LoggerFromContext(r.Context()).Error("get product", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return pricing.Quotation{}, false
	}

	var picks pricing.Picks
	if err := decodeBody(r, &picks); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return pricing.Quotation{}, false
	}

	q, err := pricing.Quote(product, picks)
	if err != nil {
		if isPicksError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return pricing.Quotation{}, false
		}
		middleware.LoggerFromContext(r.Context()).Error("quote product", zap.String("product_id", product.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return pricing.Quotation{}, false
	}
	return q, true
}

// --- Handlers ---

// List returns every product in catalog order, or the matches for ?q=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" && h.search != nil {
		writeJSON(w, http.StatusOK, toProductList(h.search.Search(q)))
		return
	}
	writeJSON(w, http.StatusOK, toProductList(h.catalog.Products()))
}

// Get returns a single product by ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Product(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			NotFound(w, "product not found")
			return
		}
		middleware.LoggerFromContext(r.Context()).Error("get product", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Quote prices the picks in the body. Incomplete selections are not an
// error; they come back with can_submit=false and no item.
func (h *ProductHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q, ok := h.quote(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

// BuildItem returns the cart line for the picks in the body, ready to be
// added to the device cart.
func (h *ProductHandler) BuildItem(w http.ResponseWriter, r *http.Request) {
	q, ok := h.quote(w, r)
	if !ok {
		return
	}
	if !q.CanSubmit {
		writeError(w, http.StatusUnprocessableEntity, pricing.ErrIncompleteSelection.Error())
		return
	}
	writeJSON(w, http.StatusOK, q.Item)
}
