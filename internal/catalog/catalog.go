// Package catalog holds the bakery's read-only product catalog.
//
// A Catalog is built once at process start (from embedded YAML or from
// Postgres) and never mutated afterwards, so it is safe to share across
// goroutines without locking.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sweetcrumb/storefront/internal/enum"
)

// Errors returned by catalog lookups and validation.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrInvalidProduct   = errors.New("invalid product")
)

// Size is a size or pack option. Units > 0 marks a pack tier used by
// per-unit mixes (e.g. a 6-unit box).
type Size struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Units       int             `json:"units,omitempty"`
}

// Flavor is a flavor option with a price delta over the base price.
type Flavor struct {
	Name            string          `json:"name"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
}

// Topping is an optional add-on priced individually.
type Topping struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// SubItem is an individually countable piece of a mix (one cookie kind).
type SubItem struct {
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// Product is a single catalog entry.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	DisplayPrice string          `json:"display_price"`
	Image        string          `json:"image"`
	Video        string          `json:"video,omitempty"`
	Category     string          `json:"category"`
	Kind         string          `json:"kind"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Sizes        []Size          `json:"sizes,omitempty"`
	Flavors      []Flavor        `json:"flavors,omitempty"`
	Toppings     []Topping       `json:"toppings,omitempty"`
	SubItems     []SubItem       `json:"sub_items,omitempty"`
}

// Size looks up a size option by name.
func (p Product) Size(name string) (Size, bool) {
	for _, s := range p.Sizes {
		if s.Name == name {
			return s, true
		}
	}
	return Size{}, false
}

// Flavor looks up a flavor option by name.
func (p Product) Flavor(name string) (Flavor, bool) {
	for _, f := range p.Flavors {
		if f.Name == name {
			return f, true
		}
	}
	return Flavor{}, false
}

// Topping looks up a topping option by name.
func (p Product) Topping(name string) (Topping, bool) {
	for _, t := range p.Toppings {
		if t.Name == name {
			return t, true
		}
	}
	return Topping{}, false
}

// SubItem looks up a sub-item by name.
func (p Product) SubItem(name string) (SubItem, bool) {
	for _, s := range p.SubItems {
		if s.Name == name {
			return s, true
		}
	}
	return SubItem{}, false
}

// PackTiers returns the sizes that carry a unit count, smallest first.
func (p Product) PackTiers() []Size {
	var tiers []Size
	for _, s := range p.Sizes {
		if s.Units > 0 {
			tiers = append(tiers, s)
		}
	}
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].Units < tiers[j].Units })
	return tiers
}

func (p Product) validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: %s: name is required", ErrInvalidProduct, p.ID)
	}
	if !enum.IsValidCategory(p.Category) {
		return fmt.Errorf("%w: %s: unknown category %q", ErrInvalidProduct, p.ID, p.Category)
	}
	if !enum.IsValidKind(p.Kind) {
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidProduct, p.ID, p.Kind)
	}
	if p.BasePrice.IsNegative() {
		return fmt.Errorf("%w: %s: base_price must be >= 0", ErrInvalidProduct, p.ID)
	}
	switch p.Kind {
	case enum.KindFixedPack, enum.KindSizeFlavorToppings:
		if len(p.Sizes) == 0 {
			return fmt.Errorf("%w: %s: %s requires sizes", ErrInvalidProduct, p.ID, p.Kind)
		}
	case enum.KindMultiFlavor:
		if len(p.Flavors) == 0 {
			return fmt.Errorf("%w: %s: %s requires flavors", ErrInvalidProduct, p.ID, p.Kind)
		}
	case enum.KindCookieMix:
		if len(p.SubItems) == 0 {
			return fmt.Errorf("%w: %s: %s requires sub_items", ErrInvalidProduct, p.ID, p.Kind)
		}
	}
	return nil
}

// Catalog is an immutable, ordered product list with id lookup.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New validates products and builds a Catalog. Input order is kept.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Products returns every product in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product returns the product with the given id.
func (c *Catalog) Product(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return c.products[i], nil
}

// ByCategory returns the products in a category. An unknown category is
// an error; a known category with no products is an empty list.
func (c *Catalog) ByCategory(category string) ([]Product, error) {
	if !enum.IsValidCategory(category) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	out := []Product{}
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// Categories returns the categories that have at least one product.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	for _, p := range c.products {
		seen[p.Category] = true
	}
	var out []string
	for _, cat := range enum.Categories() {
		if seen[cat] {
			out = append(out, cat)
		}
	}
	return out
}

// CategoryOf returns the category of a product id.
func (c *Catalog) CategoryOf(productID string) (string, bool) {
	i, ok := c.byID[productID]
	if !ok {
		return "", false
	}
	return c.products[i].Category, true
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }
