package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/config"
)

func main() {
	// CLI flags
	file := flag.String("file", "", "Catalog YAML file (defaults to the built-in catalog)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	var cat *catalog.Catalog
	if *file != "" {
		cat, err = catalog.LoadFile(*file)
	} else {
		cat, err = catalog.LoadEmbedded()
	}
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Connect to database
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Schema and products in one transaction: all or nothing
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, catalog.Schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	n, err := catalog.Publish(ctx, tx, cat)
	if err != nil {
		log.Fatalf("Failed to publish catalog: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Printf("Seed completed successfully: %d products", n)
}
