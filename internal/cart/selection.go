package cart

import (
	"sort"

	"github.com/sweetcrumb/storefront/internal/enum"
)

// Selection is the shape-specific payload of a line item. The set of
// implementations is closed: one per product configuration shape.
type Selection interface {
	Kind() string
	normalize() Selection
}

// Plain is a product with no options.
type Plain struct{}

// FixedPack is a boxed product sold at the pack's listed price.
type FixedPack struct {
	Pack    string   `json:"pack"`
	Flavors []string `json:"flavors,omitempty"`
}

// FlavorQuantity is a flavored product bought by the unit.
type FlavorQuantity struct {
	Flavor string `json:"flavor"`
}

// FlavorOnly is a flavored product with a single fixed serving.
type FlavorOnly struct {
	Flavor string `json:"flavor"`
}

// MultiFlavor is a flat-priced box with one or more checked flavors.
type MultiFlavor struct {
	Flavors []string `json:"flavors"`
}

// CookieMix maps sub-item names to how many of each are in the mix.
type CookieMix struct {
	Counts map[string]int `json:"counts"`
}

// SizeFlavorToppings is a built-to-order product (celebration cakes).
type SizeFlavorToppings struct {
	Size     string   `json:"size"`
	Flavor   string   `json:"flavor"`
	Toppings []string `json:"toppings,omitempty"`
}

func (Plain) Kind() string              { return enum.KindPlain }
func (FixedPack) Kind() string          { return enum.KindFixedPack }
func (FlavorQuantity) Kind() string     { return enum.KindFlavorQuantity }
func (FlavorOnly) Kind() string         { return enum.KindFlavorOnly }
func (MultiFlavor) Kind() string        { return enum.KindMultiFlavor }
func (CookieMix) Kind() string          { return enum.KindCookieMix }
func (SizeFlavorToppings) Kind() string { return enum.KindSizeFlavorToppings }

func (s Plain) normalize() Selection          { return s }
func (s FlavorQuantity) normalize() Selection { return s }
func (s FlavorOnly) normalize() Selection     { return s }

func (s FixedPack) normalize() Selection {
	return FixedPack{Pack: s.Pack, Flavors: sortedSet(s.Flavors)}
}

func (s MultiFlavor) normalize() Selection {
	return MultiFlavor{Flavors: sortedSet(s.Flavors)}
}

func (s CookieMix) normalize() Selection {
	counts := make(map[string]int, len(s.Counts))
	for name, n := range s.Counts {
		if n > 0 {
			counts[name] = n
		}
	}
	return CookieMix{Counts: counts}
}

func (s SizeFlavorToppings) normalize() Selection {
	return SizeFlavorToppings{Size: s.Size, Flavor: s.Flavor, Toppings: sortedSet(s.Toppings)}
}

// Total returns the number of units in the mix.
func (s CookieMix) Total() int {
	total := 0
	for _, n := range s.Counts {
		if n > 0 {
			total += n
		}
	}
	return total
}

// Names returns the sub-item names in the mix, sorted.
func (s CookieMix) Names() []string {
	names := make([]string, 0, len(s.Counts))
	for name, n := range s.Counts {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Normalize returns sel in canonical form: multi-valued picks sorted and
// de-duplicated, zero counts dropped. A nil selection is Plain.
func Normalize(sel Selection) Selection {
	if sel == nil {
		return Plain{}
	}
	return sel.normalize()
}

// sortedSet returns a sorted copy of names with duplicates and empty
// strings removed. Nil in, nil out.
func sortedSet(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
