package catalog

import (
	"embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/products.yaml
var dataFS embed.FS

type rawSize struct {
	Name        string `yaml:"name" json:"name"`
	Price       string `yaml:"price" json:"price"`
	Description string `yaml:"description" json:"description,omitempty"`
	Units       int    `yaml:"units" json:"units,omitempty"`
}

type rawFlavor struct {
	Name            string `yaml:"name" json:"name"`
	PriceAdjustment string `yaml:"price_adjustment" json:"price_adjustment,omitempty"`
}

type rawTopping struct {
	Name  string `yaml:"name" json:"name"`
	Price string `yaml:"price" json:"price"`
}

type rawSubItem struct {
	Name        string `yaml:"name" json:"name"`
	Image       string `yaml:"image" json:"image,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// rawOptions mirrors the option lists as stored in YAML files and in the
// Postgres options JSONB column. Prices are strings so both sources
// share one decoding path.
type rawOptions struct {
	Sizes    []rawSize    `yaml:"sizes" json:"sizes,omitempty"`
	Flavors  []rawFlavor  `yaml:"flavors" json:"flavors,omitempty"`
	Toppings []rawTopping `yaml:"toppings" json:"toppings,omitempty"`
	SubItems []rawSubItem `yaml:"sub_items" json:"sub_items,omitempty"`
}

type rawProduct struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	DisplayPrice string     `yaml:"display_price"`
	Image        string     `yaml:"image"`
	Video        string     `yaml:"video"`
	Category     string     `yaml:"category"`
	Kind         string     `yaml:"kind"`
	BasePrice    string     `yaml:"base_price"`
	Options      rawOptions `yaml:",inline"`
}

type rawFile struct {
	Products []rawProduct `yaml:"products"`
}

// parsePrice parses a money string; empty means zero.
func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", s)
	}
	return d, nil
}

// parseSignedPrice parses a price adjustment, which may be negative.
func parseSignedPrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func (o rawOptions) apply(p *Product) error {
	for _, s := range o.Sizes {
		price, err := parsePrice(s.Price)
		if err != nil {
			return fmt.Errorf("size %q: %w", s.Name, err)
		}
		p.Sizes = append(p.Sizes, Size{Name: s.Name, Price: price, Description: s.Description, Units: s.Units})
	}
	for _, f := range o.Flavors {
		adj, err := parseSignedPrice(f.PriceAdjustment)
		if err != nil {
			return fmt.Errorf("flavor %q: %w", f.Name, err)
		}
		p.Flavors = append(p.Flavors, Flavor{Name: f.Name, PriceAdjustment: adj})
	}
	for _, t := range o.Toppings {
		price, err := parsePrice(t.Price)
		if err != nil {
			return fmt.Errorf("topping %q: %w", t.Name, err)
		}
		p.Toppings = append(p.Toppings, Topping{Name: t.Name, Price: price})
	}
	for _, s := range o.SubItems {
		p.SubItems = append(p.SubItems, SubItem(s))
	}
	return nil
}

func (r rawProduct) toProduct() (Product, error) {
	base, err := parsePrice(r.BasePrice)
	if err != nil {
		return Product{}, fmt.Errorf("%w: %s: base_price: %v", ErrInvalidProduct, r.ID, err)
	}
	p := Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		DisplayPrice: r.DisplayPrice,
		Image:        r.Image,
		Video:        r.Video,
		Category:     r.Category,
		Kind:         r.Kind,
		BasePrice:    base,
	}
	if err := r.Options.apply(&p); err != nil {
		return Product{}, fmt.Errorf("%w: %s: %v", ErrInvalidProduct, r.ID, err)
	}
	return p, nil
}

// Parse decodes a YAML catalog document and validates it.
func Parse(data []byte) (*Catalog, error) {
	var f rawFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	products := make([]Product, 0, len(f.Products))
	for _, r := range f.Products {
		p, err := r.toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return New(products)
}

// LoadEmbedded returns the catalog compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	data, err := dataFS.ReadFile("data/products.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// optionsOf converts a product's options back into their stored shape.
func optionsOf(p Product) rawOptions {
	var o rawOptions
	for _, s := range p.Sizes {
		o.Sizes = append(o.Sizes, rawSize{Name: s.Name, Price: s.Price.String(), Description: s.Description, Units: s.Units})
	}
	for _, f := range p.Flavors {
		o.Flavors = append(o.Flavors, rawFlavor{Name: f.Name, PriceAdjustment: f.PriceAdjustment.String()})
	}
	for _, t := range p.Toppings {
		o.Toppings = append(o.Toppings, rawTopping{Name: t.Name, Price: t.Price.String()})
	}
	for _, s := range p.SubItems {
		o.SubItems = append(o.SubItems, rawSubItem(s))
	}
	return o
}
