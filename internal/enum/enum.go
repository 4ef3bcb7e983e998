package enum

// ── Group A: Selection shapes (drive pricing and the cart payload) ──

const (
	KindPlain              = "plain"
	KindFixedPack          = "fixed_pack"
	KindFlavorQuantity     = "flavor_quantity"
	KindFlavorOnly         = "flavor_only"
	KindMultiFlavor        = "multi_flavor"
	KindCookieMix          = "cookie_mix"
	KindSizeFlavorToppings = "size_flavor_toppings"
)

// ── Group B: Catalog categories ──

const (
	CategoryCookies  = "cookies"
	CategoryBrownies = "brownies"
	CategoryPastries = "pastries"
	CategoryCakes    = "cakes"
	CategoryBreads   = "breads"
	CategoryDesserts = "desserts"
)

// ── Group C: Runtime switches ──

const (
	CatalogSourceEmbedded = "embedded"
	CatalogSourcePostgres = "postgres"
)

const (
	CartBackendFile   = "file"
	CartBackendSQLite = "sqlite"
	CartBackendMemory = "memory"
)

// IsValidKind reports whether s names a known selection shape.
func IsValidKind(s string) bool {
	switch s {
	case KindPlain, KindFixedPack, KindFlavorQuantity, KindFlavorOnly,
		KindMultiFlavor, KindCookieMix, KindSizeFlavorToppings:
		return true
	}
	return false
}

// Categories lists every catalog category in display order.
func Categories() []string {
	return []string{
		CategoryCookies,
		CategoryBrownies,
		CategoryPastries,
		CategoryCakes,
		CategoryBreads,
		CategoryDesserts,
	}
}

// IsValidCategory reports whether s names a known catalog category.
func IsValidCategory(s string) bool {
	for _, c := range Categories() {
		if c == s {
			return true
		}
	}
	return false
}
