package main

import (
	"bytes"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweetcrumb/storefront/internal/pricing"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	t.Setenv("CATALOG_SOURCE", "embedded")
	t.Setenv("WHATSAPP_PHONE", "15550100123")
	t.Setenv("SHOP_NAME", "SweetCrumb")
	a := &app{in: strings.NewReader("")}
	t.Cleanup(a.close)
	return a
}

// run executes one command against a and returns what it printed.
func run(a *app, args ...string) (string, error) {
	var buf bytes.Buffer
	a.out = &buf
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, a *app, args ...string) string {
	t.Helper()
	out, err := run(a, args...)
	require.NoError(t, err, out)
	return out
}

func TestAddAndList(t *testing.T) {
	a := newTestApp(t)

	out := mustRun(t, a, "--backend", "memory", "add", "sourdough-loaf", "--qty", "2")
	assert.Equal(t, "Added 2x Sourdough Loaf = $18.00\n", out)

	mustRun(t, a, "add", "mini-donut-dozen", "--flavors", "Maple,Chocolate")
	// Same flavors in another order merge into the existing line.
	mustRun(t, a, "add", "mini-donut-dozen", "--flavors", "Chocolate", "--flavors", "Maple")

	out = mustRun(t, a, "list")
	assert.Contains(t, out, "1.  2x Sourdough Loaf")
	assert.Contains(t, out, "2x Mini Donut Dozen  Chocolate, Maple  $36.00")
	assert.Contains(t, out, "4 items, total $54.00  ✨ just added")
}

func TestAdd_CookieMixShowsSavings(t *testing.T) {
	a := newTestApp(t)

	out := mustRun(t, a, "--backend", "memory", "add", "cookie-mix", "--count", "Chocolate Chip=6,Red Velvet=2")

	assert.Contains(t, out, "Added 1x Build Your Cookie Box (Mix of 8: Chocolate Chip x6, Red Velvet x2) = $22.00")
	assert.Contains(t, out, "You save $2.00 with this pack")
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"incomplete", []string{"add", "brownie-box"}, pricing.ErrIncompleteSelection},
		{"unknown option", []string{"add", "cinnamon-roll", "--flavor", "Bacon"}, pricing.ErrUnknownOption},
		{"no match", []string{"add", "pizza"}, errNoSuchProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			_, err := run(a, append([]string{"--backend", "memory"}, tt.args...)...)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Empty(t, a.store.Items())
		})
	}
}

func TestAdd_ByName(t *testing.T) {
	a := newTestApp(t)

	mustRun(t, a, "--backend", "memory", "add", "butter", "croissant")

	items := a.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "butter-croissant", items[0].ProductID)
}

func TestSetQtyAndRemove(t *testing.T) {
	a := newTestApp(t)
	mustRun(t, a, "--backend", "memory", "add", "sourdough-loaf")
	mustRun(t, a, "add", "cheesecake-slice", "--flavor", "Strawberry")

	out := mustRun(t, a, "set-qty", "1", "3")
	assert.Equal(t, "Total $34.00\n", out)

	mustRun(t, a, "rm", "1")
	items := a.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "cheesecake-slice", items[0].ProductID)

	_, err := run(a, "rm", "5")
	assert.True(t, errors.Is(err, errNoSuchLine))

	mustRun(t, a, "set-qty", items[0].ID, "0")
	assert.Empty(t, a.store.Items())
}

func TestCheckout(t *testing.T) {
	a := newTestApp(t)

	out := mustRun(t, a, "--backend", "memory", "checkout")
	assert.Contains(t, out, "Hi SweetCrumb! I'd like to ask about your bakes.")

	mustRun(t, a, "add", "custom-cake", "--size", "6 inch", "--flavor", "Vanilla")
	out = mustRun(t, a, "checkout", "--clear")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	link := lines[len(lines)-1]
	require.True(t, strings.HasPrefix(link, "https://wa.me/15550100123?text="), link)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "🎂 *Custom Celebration Cake*")
	assert.Empty(t, a.store.Items())
}

func TestCartPersistsBetweenRuns(t *testing.T) {
	dir := t.TempDir()

	first := newTestApp(t)
	mustRun(t, first, "--backend", "file", "--dir", dir, "add", "sourdough-loaf", "--qty", "3")
	first.close()

	second := newTestApp(t)
	out := mustRun(t, second, "--backend", "file", "--dir", dir, "list")
	assert.Contains(t, out, "3x Sourdough Loaf")
	assert.NotContains(t, out, "just added")
}

func TestShell(t *testing.T) {
	a := newTestApp(t)
	a.in = strings.NewReader(`add cinnamon-roll --flavor "Cream Cheese" -q 2
list
exit
`)

	out := mustRun(t, a, "--backend", "memory", "shell")

	assert.Contains(t, out, "Added 2x Cinnamon Roll (Cream Cheese) = $10.00")
	assert.Contains(t, out, "2 items, total $10.00  ✨ just added")
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"add", "brownie-box", "--pack", "Box of 9", "--flavors", "Walnut"},
		splitArgs(`add  brownie-box --pack "Box of 9" --flavors Walnut`))
	assert.Empty(t, splitArgs("   "))
}
