// Package pricing turns a shopper's raw option picks for a product into a
// price and a normalized cart selection. There is one picker per product
// configuration shape; all of them price from the catalog entry alone.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sweetcrumb/storefront/internal/cart"
	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/enum"
)

// Errors returned by pickers and Quote.
var (
	ErrIncompleteSelection = errors.New("selection is incomplete")
	ErrUnknownOption       = errors.New("unknown option")
	ErrUnknownKind         = errors.New("unknown product kind")
	ErrInvalidCount        = errors.New("count must be >= 0")
)

// Picker accumulates option picks for one product.
type Picker interface {
	// Price is the price of one unit of the current configuration.
	Price() decimal.Decimal
	// CanSubmit reports whether the configuration may be added to the cart.
	CanSubmit() bool
	// Selection is the normalized cart payload for the current picks.
	Selection() cart.Selection
	// Item builds the cart line for quantity units, or returns
	// ErrIncompleteSelection.
	Item(quantity int) (cart.Item, error)
}

// NewPicker returns the picker matching the product's kind.
func NewPicker(p catalog.Product) (Picker, error) {
	switch p.Kind {
	case enum.KindPlain:
		return NewPlainPicker(p), nil
	case enum.KindFixedPack:
		return NewPackPicker(p), nil
	case enum.KindFlavorQuantity, enum.KindFlavorOnly:
		return NewFlavorPicker(p), nil
	case enum.KindMultiFlavor:
		return NewMultiFlavorPicker(p), nil
	case enum.KindCookieMix:
		return NewCookieMixPicker(p), nil
	case enum.KindSizeFlavorToppings:
		return NewCakePicker(p), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
}

// Picks is the raw, shape-agnostic form of a shopper's choices. Only the
// fields relevant to the product's kind are read.
type Picks struct {
	Pack     string         `json:"pack,omitempty"`
	Size     string         `json:"size,omitempty"`
	Flavor   string         `json:"flavor,omitempty"`
	Flavors  []string       `json:"flavors,omitempty"`
	Toppings []string       `json:"toppings,omitempty"`
	Counts   map[string]int `json:"counts,omitempty"`
	Quantity int            `json:"quantity,omitempty"`
}

// Quotation is the priced result of applying Picks to a product.
type Quotation struct {
	ProductID string
	Kind      string
	Price     decimal.Decimal
	Subtotal  decimal.Decimal
	Savings   decimal.NullDecimal
	CanSubmit bool
	Selection cart.Selection
	// Item is set only when CanSubmit is true.
	Item *cart.Item
}

// Quote applies picks to a fresh picker for p. Unknown option names are an
// error; an incomplete but valid selection is not (CanSubmit is false).
func Quote(p catalog.Product, picks Picks) (Quotation, error) {
	picker, err := NewPicker(p)
	if err != nil {
		return Quotation{}, err
	}
	if err := apply(picker, picks); err != nil {
		return Quotation{}, err
	}

	qty := picks.Quantity
	if qty < 1 {
		qty = 1
	}

	q := Quotation{
		ProductID: p.ID,
		Kind:      p.Kind,
		Price:     picker.Price(),
		CanSubmit: picker.CanSubmit(),
		Selection: picker.Selection(),
	}
	q.Subtotal = q.Price.Mul(decimal.NewFromInt(int64(qty)))
	if mix, ok := picker.(*CookieMixPicker); ok {
		q.Savings = mix.Savings()
	}
	if q.CanSubmit {
		item, err := picker.Item(qty)
		if err != nil {
			return Quotation{}, err
		}
		q.Item = &item
	}
	return q, nil
}

func apply(picker Picker, picks Picks) error {
	switch pk := picker.(type) {
	case *PlainPicker:
		return nil

	case *PackPicker:
		pack := picks.Pack
		if pack == "" {
			pack = picks.Size
		}
		if pack != "" {
			if err := pk.SelectPack(pack); err != nil {
				return err
			}
		}
		for _, name := range dedupe(picks.Flavors) {
			if err := pk.ToggleFlavor(name); err != nil {
				return err
			}
		}

	case *FlavorPicker:
		if picks.Flavor != "" {
			return pk.SelectFlavor(picks.Flavor)
		}

	case *MultiFlavorPicker:
		for _, name := range dedupe(picks.Flavors) {
			if err := pk.Toggle(name); err != nil {
				return err
			}
		}

	case *CookieMixPicker:
		for name, n := range picks.Counts {
			if err := pk.SetCount(name, n); err != nil {
				return err
			}
		}

	case *CakePicker:
		if picks.Size != "" {
			if err := pk.SelectSize(picks.Size); err != nil {
				return err
			}
		}
		if picks.Flavor != "" {
			if err := pk.SelectFlavor(picks.Flavor); err != nil {
				return err
			}
		}
		for _, name := range dedupe(picks.Toppings) {
			if err := pk.ToggleTopping(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- Helpers ---

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func unknown(kind, name, productID string) error {
	return fmt.Errorf("%w: %s %q for %s", ErrUnknownOption, kind, name, productID)
}

func newItem(p catalog.Product, sel cart.Selection, quantity int) cart.Item {
	if quantity < 1 {
		quantity = 1
	}
	return cart.Item{
		ID:        cart.Key(p.ID, sel),
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  quantity,
		Image:     p.Image,
		Selection: sel,
	}
}

func unitItem(p catalog.Product, sel cart.Selection, quantity int, price decimal.Decimal) cart.Item {
	it := newItem(p, sel, quantity)
	it.UnitPrice = decimal.NewNullDecimal(price)
	return it
}

func packItem(p catalog.Product, sel cart.Selection, quantity int, price decimal.Decimal) cart.Item {
	it := newItem(p, sel, quantity)
	it.PackPrice = decimal.NewNullDecimal(price)
	return it
}
