package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/config"
	"github.com/sweetcrumb/storefront/internal/handler"
	"github.com/sweetcrumb/storefront/internal/matcher"
	mw "github.com/sweetcrumb/storefront/internal/middleware"
	"github.com/sweetcrumb/storefront/internal/order"
	"github.com/sweetcrumb/storefront/internal/quiz"
	"go.uber.org/zap"
)

// New creates a Chi router with all storefront routes wired up.
// The API is read-only over the catalog; carts arrive in request bodies.
func New(cfg *config.Config, logger *zap.Logger, cat *catalog.Catalog, q *quiz.Quiz) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.NotFound(w, "page not found")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	formatter := order.NewFormatter(cfg.WhatsApp.Phone, cfg.WhatsApp.BaseURL, cfg.ShopName, cat)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireJSON)

		productHandler := handler.NewProductHandler(cat, matcher.New(cat.Products()))
		r.Route("/products", productHandler.RegisterRoutes)

		categoryHandler := handler.NewCategoryHandler(cat)
		r.Route("/categories", categoryHandler.RegisterRoutes)

		quizHandler := handler.NewQuizHandler(q, cat)
		r.Route("/quiz", quizHandler.RegisterRoutes)

		checkoutHandler := handler.NewCheckoutHandler(formatter)
		r.Route("/checkout", checkoutHandler.RegisterRoutes)
	})

	logger.Info("router initialized", zap.Int("products", cat.Len()))
	return r
}
