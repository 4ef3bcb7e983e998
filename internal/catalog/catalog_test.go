package catalog

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)
	require.Greater(t, c.Len(), 0)

	mix, err := c.Product("cookie-mix")
	require.NoError(t, err)
	assert.Equal(t, "cookie_mix", mix.Kind)
	assert.True(t, mix.BasePrice.Equal(decimal.NewFromInt(3)))

	tiers := mix.PackTiers()
	require.Len(t, tiers, 2)
	assert.Equal(t, 6, tiers[0].Units)
	assert.True(t, tiers[0].Price.Equal(decimal.NewFromInt(16)))
	assert.Equal(t, 12, tiers[1].Units)
	assert.True(t, tiers[1].Price.Equal(decimal.NewFromInt(29)))
}

func TestProductNotFound(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	_, err = c.Product("does-not-exist")
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestByCategory(t *testing.T) {
	c, err := LoadEmbedded()
	require.NoError(t, err)

	pastries, err := c.ByCategory("pastries")
	require.NoError(t, err)
	for _, p := range pastries {
		assert.Equal(t, "pastries", p.Category)
	}
	assert.NotEmpty(t, pastries)

	_, err = c.ByCategory("sandwiches")
	assert.True(t, errors.Is(err, ErrCategoryNotFound))
}

func TestCategoriesKeepDisplayOrder(t *testing.T) {
	c, err := New([]Product{
		{ID: "b", Name: "Bread", Category: "breads", Kind: "plain"},
		{ID: "c", Name: "Cookie", Category: "cookies", Kind: "plain"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cookies", "breads"}, c.Categories())

	cat, ok := c.CategoryOf("b")
	assert.True(t, ok)
	assert.Equal(t, "breads", cat)
	_, ok = c.CategoryOf("zzz")
	assert.False(t, ok)
}

func TestNewRejectsInvalidProducts(t *testing.T) {
	tests := []struct {
		name     string
		products []Product
		wantErr  error
	}{
		{
			name:     "missing id",
			products: []Product{{Name: "x", Category: "cakes", Kind: "plain"}},
			wantErr:  ErrInvalidProduct,
		},
		{
			name:     "unknown category",
			products: []Product{{ID: "x", Name: "x", Category: "pizza", Kind: "plain"}},
			wantErr:  ErrInvalidProduct,
		},
		{
			name:     "unknown kind",
			products: []Product{{ID: "x", Name: "x", Category: "cakes", Kind: "mystery"}},
			wantErr:  ErrInvalidProduct,
		},
		{
			name:     "cookie mix without sub items",
			products: []Product{{ID: "x", Name: "x", Category: "cookies", Kind: "cookie_mix"}},
			wantErr:  ErrInvalidProduct,
		},
		{
			name: "duplicate id",
			products: []Product{
				{ID: "x", Name: "x", Category: "cakes", Kind: "plain"},
				{ID: "x", Name: "y", Category: "cakes", Kind: "plain"},
			},
			wantErr: ErrDuplicateProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.products)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestParseRejectsBadPrice(t *testing.T) {
	doc := []byte(`
products:
  - id: loaf
    name: Loaf
    category: breads
    kind: plain
    base_price: "abc"
`)
	_, err := Parse(doc)
	assert.True(t, errors.Is(err, ErrInvalidProduct))
}

func TestParseNegativeFlavorAdjustment(t *testing.T) {
	doc := []byte(`
products:
  - id: slice
    name: Slice
    category: desserts
    kind: flavor_only
    base_price: "6"
    flavors:
      - name: Mini
        price_adjustment: "-1.5"
`)
	c, err := Parse(doc)
	require.NoError(t, err)
	p, err := c.Product("slice")
	require.NoError(t, err)
	f, ok := p.Flavor("Mini")
	require.True(t, ok)
	assert.True(t, f.PriceAdjustment.Equal(decimal.RequireFromString("-1.5")))
}
