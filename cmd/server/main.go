package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/config"
	"github.com/sweetcrumb/storefront/internal/logging"
	"github.com/sweetcrumb/storefront/internal/quiz"
	"github.com/sweetcrumb/storefront/internal/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	logger.Info("starting storefront API",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("catalog_source", cfg.CatalogSource),
	)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	cat, err := catalog.Open(loadCtx, cfg.CatalogSource, cfg.DatabaseURL)
	cancelLoad()
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("products", cat.Len()))

	q, err := quiz.LoadEmbedded()
	if err != nil {
		logger.Fatal("failed to load quiz", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(cfg, logger, cat, q),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("address", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
