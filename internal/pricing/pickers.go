package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sweetcrumb/storefront/internal/cart"
	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/enum"
)

// --- Plain ---

// PlainPicker prices an option-less product at its base price.
type PlainPicker struct {
	product catalog.Product
}

func NewPlainPicker(p catalog.Product) *PlainPicker { return &PlainPicker{product: p} }

func (pk *PlainPicker) Price() decimal.Decimal    { return pk.product.BasePrice }
func (pk *PlainPicker) CanSubmit() bool           { return true }
func (pk *PlainPicker) Selection() cart.Selection { return cart.Plain{} }

func (pk *PlainPicker) Item(quantity int) (cart.Item, error) {
	return unitItem(pk.product, cart.Plain{}, quantity, pk.Price()), nil
}

// --- Fixed pack ---

// PackPicker sells a box at the chosen pack's listed price. Flavors are
// informational and never change the price.
type PackPicker struct {
	product catalog.Product
	pack    *catalog.Size
	flavors map[string]bool
}

func NewPackPicker(p catalog.Product) *PackPicker {
	return &PackPicker{product: p, flavors: make(map[string]bool)}
}

// SelectPack chooses a pack by name.
func (pk *PackPicker) SelectPack(name string) error {
	s, ok := pk.product.Size(name)
	if !ok {
		return unknown("pack", name, pk.product.ID)
	}
	pk.pack = &s
	return nil
}

// ToggleFlavor checks or unchecks a flavor.
func (pk *PackPicker) ToggleFlavor(name string) error {
	if _, ok := pk.product.Flavor(name); !ok {
		return unknown("flavor", name, pk.product.ID)
	}
	toggle(pk.flavors, name)
	return nil
}

// Price is the pack price, or the base price while no pack is chosen.
func (pk *PackPicker) Price() decimal.Decimal {
	if pk.pack == nil {
		return pk.product.BasePrice
	}
	return pk.pack.Price
}

func (pk *PackPicker) CanSubmit() bool { return pk.pack != nil }

func (pk *PackPicker) Selection() cart.Selection {
	sel := cart.FixedPack{Flavors: keys(pk.flavors)}
	if pk.pack != nil {
		sel.Pack = pk.pack.Name
	}
	return cart.Normalize(sel)
}

func (pk *PackPicker) Item(quantity int) (cart.Item, error) {
	if !pk.CanSubmit() {
		return cart.Item{}, ErrIncompleteSelection
	}
	return packItem(pk.product, pk.Selection(), quantity, pk.pack.Price), nil
}

// --- Flavor (+ quantity) ---

// FlavorPicker handles flavor+quantity and flavor-only products: base
// price plus the chosen flavor's adjustment.
type FlavorPicker struct {
	product catalog.Product
	flavor  *catalog.Flavor
}

func NewFlavorPicker(p catalog.Product) *FlavorPicker { return &FlavorPicker{product: p} }

// SelectFlavor chooses a flavor by name.
func (pk *FlavorPicker) SelectFlavor(name string) error {
	f, ok := pk.product.Flavor(name)
	if !ok {
		return unknown("flavor", name, pk.product.ID)
	}
	pk.flavor = &f
	return nil
}

func (pk *FlavorPicker) Price() decimal.Decimal {
	if pk.flavor == nil {
		return pk.product.BasePrice
	}
	return pk.product.BasePrice.Add(pk.flavor.PriceAdjustment)
}

// CanSubmit requires a flavor when the product offers any.
func (pk *FlavorPicker) CanSubmit() bool {
	return pk.flavor != nil || len(pk.product.Flavors) == 0
}

func (pk *FlavorPicker) Selection() cart.Selection {
	name := ""
	if pk.flavor != nil {
		name = pk.flavor.Name
	}
	if pk.product.Kind == enum.KindFlavorOnly {
		return cart.FlavorOnly{Flavor: name}
	}
	return cart.FlavorQuantity{Flavor: name}
}

func (pk *FlavorPicker) Item(quantity int) (cart.Item, error) {
	if !pk.CanSubmit() {
		return cart.Item{}, ErrIncompleteSelection
	}
	return unitItem(pk.product, pk.Selection(), quantity, pk.Price()), nil
}

// --- Multi flavor ---

// MultiFlavorPicker is a flat-priced box where one or more flavors are
// checked.
type MultiFlavorPicker struct {
	product catalog.Product
	checked map[string]bool
}

func NewMultiFlavorPicker(p catalog.Product) *MultiFlavorPicker {
	return &MultiFlavorPicker{product: p, checked: make(map[string]bool)}
}

// Toggle checks or unchecks a flavor.
func (pk *MultiFlavorPicker) Toggle(name string) error {
	if _, ok := pk.product.Flavor(name); !ok {
		return unknown("flavor", name, pk.product.ID)
	}
	toggle(pk.checked, name)
	return nil
}

// Checked returns the checked flavors, sorted.
func (pk *MultiFlavorPicker) Checked() []string { return keys(pk.checked) }

func (pk *MultiFlavorPicker) Price() decimal.Decimal { return pk.product.BasePrice }
func (pk *MultiFlavorPicker) CanSubmit() bool        { return len(pk.checked) > 0 }

func (pk *MultiFlavorPicker) Selection() cart.Selection {
	return cart.MultiFlavor{Flavors: pk.Checked()}
}

func (pk *MultiFlavorPicker) Item(quantity int) (cart.Item, error) {
	if !pk.CanSubmit() {
		return cart.Item{}, ErrIncompleteSelection
	}
	return unitItem(pk.product, pk.Selection(), quantity, pk.Price()), nil
}

// --- Size + flavor + toppings ---

// CakePicker builds a celebration cake: size price plus flavor
// adjustment plus every checked topping.
type CakePicker struct {
	product  catalog.Product
	size     *catalog.Size
	flavor   *catalog.Flavor
	toppings map[string]bool
}

func NewCakePicker(p catalog.Product) *CakePicker {
	return &CakePicker{product: p, toppings: make(map[string]bool)}
}

func (pk *CakePicker) SelectSize(name string) error {
	s, ok := pk.product.Size(name)
	if !ok {
		return unknown("size", name, pk.product.ID)
	}
	pk.size = &s
	return nil
}

func (pk *CakePicker) SelectFlavor(name string) error {
	f, ok := pk.product.Flavor(name)
	if !ok {
		return unknown("flavor", name, pk.product.ID)
	}
	pk.flavor = &f
	return nil
}

// ToggleTopping checks or unchecks a topping. There is no limit on how
// many toppings a cake carries.
func (pk *CakePicker) ToggleTopping(name string) error {
	if _, ok := pk.product.Topping(name); !ok {
		return unknown("topping", name, pk.product.ID)
	}
	toggle(pk.toppings, name)
	return nil
}

func (pk *CakePicker) Price() decimal.Decimal {
	price := pk.product.BasePrice
	if pk.size != nil {
		price = pk.size.Price
	}
	if pk.flavor != nil {
		price = price.Add(pk.flavor.PriceAdjustment)
	}
	for name := range pk.toppings {
		t, _ := pk.product.Topping(name)
		price = price.Add(t.Price)
	}
	return price
}

func (pk *CakePicker) CanSubmit() bool { return pk.size != nil && pk.flavor != nil }

func (pk *CakePicker) Selection() cart.Selection {
	sel := cart.SizeFlavorToppings{Toppings: keys(pk.toppings)}
	if pk.size != nil {
		sel.Size = pk.size.Name
	}
	if pk.flavor != nil {
		sel.Flavor = pk.flavor.Name
	}
	return cart.Normalize(sel)
}

func (pk *CakePicker) Item(quantity int) (cart.Item, error) {
	if !pk.CanSubmit() {
		return cart.Item{}, ErrIncompleteSelection
	}
	return unitItem(pk.product, pk.Selection(), quantity, pk.Price()), nil
}

// --- Helpers ---

func toggle(set map[string]bool, name string) {
	if set[name] {
		delete(set, name)
		return
	}
	set[name] = true
}

// keys returns the set members sorted; nil when empty.
func keys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
