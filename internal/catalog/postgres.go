package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sweetcrumb/storefront/internal/enum"
)

// Schema creates the products table used by the Postgres catalog source.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id            TEXT PRIMARY KEY,
	position      INTEGER NOT NULL,
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	display_price TEXT NOT NULL DEFAULT '',
	image         TEXT NOT NULL DEFAULT '',
	video         TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL,
	kind          TEXT NOT NULL,
	base_price    NUMERIC(12,2) NOT NULL DEFAULT 0,
	options       JSONB NOT NULL DEFAULT '{}'::jsonb,
	is_active     BOOLEAN NOT NULL DEFAULT true,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const listProductsSQL = `
SELECT id, name, description, display_price, image, video, category, kind,
       base_price::text, options
FROM products
WHERE is_active = true
ORDER BY position, id`

const upsertProductSQL = `
INSERT INTO products (id, position, name, description, display_price, image, video,
                      category, kind, base_price, options, is_active, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11, true, now())
ON CONFLICT (id) DO UPDATE SET
	position      = EXCLUDED.position,
	name          = EXCLUDED.name,
	description   = EXCLUDED.description,
	display_price = EXCLUDED.display_price,
	image         = EXCLUDED.image,
	video         = EXCLUDED.video,
	category      = EXCLUDED.category,
	kind          = EXCLUDED.kind,
	base_price    = EXCLUDED.base_price,
	options       = EXCLUDED.options,
	is_active     = true,
	updated_at    = now()`

// Querier is the read side of a pgx pool or transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Execer is the write side of a pgx pool or transaction.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// productRow is one scanned row of the products table.
type productRow struct {
	ID           string
	Name         string
	Description  string
	DisplayPrice string
	Image        string
	Video        string
	Category     string
	Kind         string
	BasePrice    string
	Options      []byte
}

func (r productRow) toProduct() (Product, error) {
	raw := rawProduct{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		DisplayPrice: r.DisplayPrice,
		Image:        r.Image,
		Video:        r.Video,
		Category:     r.Category,
		Kind:         r.Kind,
		BasePrice:    r.BasePrice,
	}
	if len(r.Options) > 0 {
		if err := json.Unmarshal(r.Options, &raw.Options); err != nil {
			return Product{}, fmt.Errorf("%w: %s: options: %v", ErrInvalidProduct, r.ID, err)
		}
	}
	return raw.toProduct()
}

// LoadPostgres reads every active product and builds a Catalog.
func LoadPostgres(ctx context.Context, db Querier) (*Catalog, error) {
	rows, err := db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var r productRow
		if err := rows.Scan(
			&r.ID, &r.Name, &r.Description, &r.DisplayPrice, &r.Image, &r.Video,
			&r.Category, &r.Kind, &r.BasePrice, &r.Options,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p, err := r.toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return New(products)
}

// Publish upserts every product of c into Postgres, keeping catalog order.
// Returns the number of rows written.
func Publish(ctx context.Context, db Execer, c *Catalog) (int, error) {
	n := 0
	for i, p := range c.products {
		opts, err := json.Marshal(optionsOf(p))
		if err != nil {
			return n, fmt.Errorf("encode options %s: %w", p.ID, err)
		}
		if _, err := db.Exec(ctx, upsertProductSQL,
			p.ID, i, p.Name, p.Description, p.DisplayPrice, p.Image, p.Video,
			p.Category, p.Kind, p.BasePrice.StringFixed(2), opts,
		); err != nil {
			return n, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
		n++
	}
	return n, nil
}

// Open loads the catalog from the named source. The Postgres pool only
// lives for the duration of the read; the catalog is immutable afterwards.
func Open(ctx context.Context, source, databaseURL string) (*Catalog, error) {
	switch source {
	case enum.CatalogSourceEmbedded, "":
		return LoadEmbedded()
	case enum.CatalogSourcePostgres:
	default:
		return nil, fmt.Errorf("unknown catalog source %q", source)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	return LoadPostgres(ctx, pool)
}
