package cart

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_OrderIndependent(t *testing.T) {
	a := Key("custom-cake", SizeFlavorToppings{Size: "8 inch", Flavor: "Vanilla", Toppings: []string{"Macarons", "Fresh Berries"}})
	b := Key("custom-cake", SizeFlavorToppings{Size: "8 inch", Flavor: "Vanilla", Toppings: []string{"Fresh Berries", "Macarons", "Macarons"}})
	assert.Equal(t, a, b)

	m1 := Key("cookie-mix", CookieMix{Counts: map[string]int{"Red Velvet": 2, "Chocolate Chip": 4}})
	m2 := Key("cookie-mix", CookieMix{Counts: map[string]int{"Chocolate Chip": 4, "Red Velvet": 2, "Oatmeal Raisin": 0}})
	assert.Equal(t, m1, m2)
}

func TestKey_DistinguishesSelections(t *testing.T) {
	keys := []string{
		Key("cinnamon-roll", FlavorQuantity{Flavor: "Classic Glaze"}),
		Key("cinnamon-roll", FlavorQuantity{Flavor: "Cream Cheese"}),
		Key("cinnamon-roll", FlavorOnly{Flavor: "Classic Glaze"}),
		Key("cheesecake-slice", FlavorOnly{Flavor: "Classic Glaze"}),
		Key("cookie-mix", CookieMix{Counts: map[string]int{"Chocolate Chip": 4}}),
		Key("cookie-mix", CookieMix{Counts: map[string]int{"Chocolate Chip": 5}}),
		Key("brownie-box", FixedPack{Pack: "Box of 4"}),
		Key("brownie-box", FixedPack{Pack: "Box of 4", Flavors: []string{"Walnut"}}),
		Key("sourdough-loaf", nil),
	}
	seen := make(map[string]int)
	for i, k := range keys {
		if j, dup := seen[k]; dup {
			t.Fatalf("key %d collides with key %d: %s", i, j, k)
		}
		seen[k] = i
	}
	assert.Equal(t, Key("sourdough-loaf", Plain{}), Key("sourdough-loaf", nil))
}

func TestItemJSON_AllShapes(t *testing.T) {
	items := []Item{
		{ID: "a", ProductID: "loaf", Name: "Loaf", Quantity: 1, UnitPrice: unit("9"), Selection: Plain{}},
		{ID: "b", ProductID: "box", Name: "Box", Quantity: 2, PackPrice: unit("25"), Selection: FixedPack{Pack: "Box of 9", Flavors: []string{"Walnut"}}},
		{ID: "c", ProductID: "roll", Name: "Roll", Quantity: 3, UnitPrice: unit("5"), Selection: FlavorQuantity{Flavor: "Cream Cheese"}},
		{ID: "d", ProductID: "slice", Name: "Slice", Quantity: 1, UnitPrice: unit("7"), Selection: FlavorOnly{Flavor: "Strawberry"}},
		{ID: "e", ProductID: "donuts", Name: "Donuts", Quantity: 1, UnitPrice: unit("18"), Selection: MultiFlavor{Flavors: []string{"Maple"}}},
		{ID: "f", ProductID: "mix", Name: "Mix", Quantity: 1, PackPrice: unit("22"), Selection: CookieMix{Counts: map[string]int{"Chocolate Chip": 8}}},
		{ID: "g", ProductID: "cake", Name: "Cake", Quantity: 1, UnitPrice: unit("62"), Selection: SizeFlavorToppings{Size: "8 inch", Flavor: "Vanilla", Toppings: []string{"Macarons", "Fresh Berries"}}},
	}

	for _, it := range items {
		t.Run(it.Kind(), func(t *testing.T) {
			data, err := json.Marshal(it)
			require.NoError(t, err)

			var got Item
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, it.Kind(), got.Kind())
			assert.Equal(t, Normalize(it.Selection), got.Selection)
			assert.True(t, it.EffectivePrice().Equal(got.EffectivePrice()))
			assert.Equal(t, it.UnitPrice.Valid, got.UnitPrice.Valid)
			assert.Equal(t, it.PackPrice.Valid, got.PackPrice.Valid)
		})
	}
}

func TestItemJSON_UnknownType(t *testing.T) {
	var it Item
	err := json.Unmarshal([]byte(`{"id":"x","type":"bundle","quantity":1}`), &it)
	assert.True(t, errors.Is(err, ErrUnknownSelection))
}

func TestCookieMix_TotalAndNames(t *testing.T) {
	mix := CookieMix{Counts: map[string]int{"Red Velvet": 2, "Chocolate Chip": 4, "Oatmeal Raisin": 0}}
	assert.Equal(t, 6, mix.Total())
	assert.Equal(t, []string{"Chocolate Chip", "Red Velvet"}, mix.Names())
}
