package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sweetcrumb/storefront/internal/cart"
	"github.com/sweetcrumb/storefront/internal/catalog"
)

// savingsEpsilon hides savings that are only rounding noise.
var savingsEpsilon = decimal.New(5, -3)

// MixPrice prices a mix of total units. The largest pack tier whose unit
// count is met applies, with units beyond it charged at the base price.
// Without a qualifying tier every unit is charged at the base price.
func MixPrice(p catalog.Product, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	tiers := p.PackTiers()
	for i := len(tiers) - 1; i >= 0; i-- {
		tier := tiers[i]
		if total >= tier.Units {
			extra := decimal.NewFromInt(int64(total - tier.Units))
			return tier.Price.Add(extra.Mul(p.BasePrice))
		}
	}
	return LinearPrice(p, total)
}

// LinearPrice is total units at the base price, ignoring pack tiers.
func LinearPrice(p catalog.Product, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return p.BasePrice.Mul(decimal.NewFromInt(int64(total)))
}

// MixSavings is the linear price minus the tiered price, valid only when
// the difference exceeds rounding noise.
func MixSavings(p catalog.Product, total int) decimal.NullDecimal {
	diff := LinearPrice(p, total).Sub(MixPrice(p, total))
	if diff.GreaterThan(savingsEpsilon) {
		return decimal.NewNullDecimal(diff)
	}
	return decimal.NullDecimal{}
}

// CookieMixPicker counts units per sub-item and prices the whole mix by
// pack tiers. The resulting cart line carries the mix price as its pack
// price.
type CookieMixPicker struct {
	product catalog.Product
	counts  map[string]int
}

func NewCookieMixPicker(p catalog.Product) *CookieMixPicker {
	return &CookieMixPicker{product: p, counts: make(map[string]int)}
}

// Increment adds one unit of a sub-item.
func (pk *CookieMixPicker) Increment(name string) error {
	if err := pk.check(name); err != nil {
		return err
	}
	pk.counts[name]++
	return nil
}

// Decrement removes one unit of a sub-item; at zero the sub-item leaves
// the mix entirely.
func (pk *CookieMixPicker) Decrement(name string) error {
	if err := pk.check(name); err != nil {
		return err
	}
	if pk.counts[name] <= 1 {
		delete(pk.counts, name)
		return nil
	}
	pk.counts[name]--
	return nil
}

// SetCount sets the units of a sub-item; 0 removes it.
func (pk *CookieMixPicker) SetCount(name string, n int) error {
	if err := pk.check(name); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidCount, name, n)
	}
	if n == 0 {
		delete(pk.counts, name)
		return nil
	}
	pk.counts[name] = n
	return nil
}

func (pk *CookieMixPicker) check(name string) error {
	if _, ok := pk.product.SubItem(name); !ok {
		return unknown("sub-item", name, pk.product.ID)
	}
	return nil
}

// Count returns the units of one sub-item.
func (pk *CookieMixPicker) Count(name string) int { return pk.counts[name] }

// Total returns the number of units in the mix.
func (pk *CookieMixPicker) Total() int {
	total := 0
	for _, n := range pk.counts {
		total += n
	}
	return total
}

func (pk *CookieMixPicker) Price() decimal.Decimal { return MixPrice(pk.product, pk.Total()) }

// Savings is the discount the pack tiers give over per-unit pricing.
func (pk *CookieMixPicker) Savings() decimal.NullDecimal { return MixSavings(pk.product, pk.Total()) }

func (pk *CookieMixPicker) CanSubmit() bool { return pk.Total() > 0 }

func (pk *CookieMixPicker) Selection() cart.Selection {
	counts := make(map[string]int, len(pk.counts))
	for k, v := range pk.counts {
		counts[k] = v
	}
	return cart.CookieMix{Counts: counts}
}

func (pk *CookieMixPicker) Item(quantity int) (cart.Item, error) {
	if !pk.CanSubmit() {
		return cart.Item{}, ErrIncompleteSelection
	}
	return packItem(pk.product, pk.Selection(), quantity, pk.Price()), nil
}
