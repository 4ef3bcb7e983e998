package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sweetcrumb/storefront/internal/cart"
	"github.com/sweetcrumb/storefront/internal/middleware"
	"github.com/sweetcrumb/storefront/internal/order"
	"go.uber.org/zap"
)

// OrderFormatter builds WhatsApp order messages. Satisfied by
// *order.Formatter.
type OrderFormatter interface {
	Format(items []cart.Item) order.Message
}

// CheckoutHandler turns a device cart into a WhatsApp deep link. Nothing
// is stored: the cart travels in the request body.
type CheckoutHandler struct {
	formatter OrderFormatter
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(f OrderFormatter) *CheckoutHandler {
	return &CheckoutHandler{formatter: f}
}

// RegisterRoutes registers checkout endpoints on the given Chi router.
// Expected to be mounted at /checkout.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/whatsapp", h.WhatsApp)
}

type checkoutRequest struct {
	Items []cart.Item `json:"items"`
}

type checkoutResponse struct {
	Text  string `json:"text"`
	Link  string `json:"link"`
	Total string `json:"total"`
	Units int    `json:"units"`
}

// WhatsApp formats the cart in the body. Lines with the same
// configuration are merged first, exactly as the device cart would.
func (h *CheckoutHandler) WhatsApp(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		if errors.Is(err, cart.ErrUnknownSelection) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state := cart.State{Items: []cart.Item{}}
	for i, item := range req.Items {
		if item.ProductID == "" {
			writeError(w, http.StatusBadRequest, formatItemError(i, "product_id is required"))
			return
		}
		if item.Quantity < 1 {
			writeError(w, http.StatusBadRequest, formatItemError(i, "quantity must be > 0"))
			return
		}
		if item.EffectivePrice().IsNegative() {
			writeError(w, http.StatusBadRequest, formatItemError(i, "price must be >= 0"))
			return
		}
		state = cart.Reduce(state, cart.Add{Item: item}, time.Time{})
	}

	msg := h.formatter.Format(state.Items)
	middleware.LoggerFromContext(r.Context()).Info("checkout link built",
		zap.Int("lines", len(state.Items)),
		zap.Int("units", msg.Units),
		zap.String("total", msg.Total.StringFixed(2)),
	)

	writeJSON(w, http.StatusOK, checkoutResponse{
		Text:  msg.Text,
		Link:  msg.Link,
		Total: msg.Total.StringFixed(2),
		Units: msg.Units,
	})
}
