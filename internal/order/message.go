// Package order turns a cart into the text of a WhatsApp order and the
// deep link that opens a chat pre-filled with it.
package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sweetcrumb/storefront/internal/cart"
	"github.com/sweetcrumb/storefront/internal/enum"
)

// DefaultBaseURL is the WhatsApp click-to-chat endpoint.
const DefaultBaseURL = "https://wa.me/"

// CategoryLookup resolves the category of a product. *catalog.Catalog
// satisfies it.
type CategoryLookup interface {
	CategoryOf(productID string) (string, bool)
}

// Formatter builds order messages for one shop phone number.
type Formatter struct {
	phone      string
	baseURL    string
	shopName   string
	categories CategoryLookup
}

// NewFormatter creates a Formatter. phone is digits only, international
// format without the leading plus. An empty baseURL uses DefaultBaseURL.
func NewFormatter(phone, baseURL, shopName string, categories CategoryLookup) *Formatter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Formatter{
		phone:      strings.TrimPrefix(phone, "+"),
		baseURL:    baseURL,
		shopName:   shopName,
		categories: categories,
	}
}

// Message is a formatted order.
type Message struct {
	Text  string
	Link  string
	Total decimal.Decimal
	Units int
}

// Format renders items as an order message. An empty cart yields a
// general enquiry instead of an itemized order.
func (f *Formatter) Format(items []cart.Item) Message {
	var text string
	total := decimal.Zero
	units := 0
	if len(items) == 0 {
		text = f.placeholder()
	} else {
		text, total = f.itemized(items)
		for _, it := range items {
			units += it.Quantity
		}
	}
	return Message{
		Text:  text,
		Link:  f.Link(text),
		Total: total,
		Units: units,
	}
}

// Link builds the deep link for text.
func (f *Formatter) Link(text string) string {
	return f.baseURL + f.phone + "?text=" + encode(text)
}

func (f *Formatter) placeholder() string {
	return fmt.Sprintf("Hi %s! I'd like to ask about your bakes.", f.shopName)
}

type group struct {
	name     string
	category string
	items    []cart.Item
}

func (f *Formatter) itemized(items []cart.Item) (string, decimal.Decimal) {
	var groups []*group
	byName := make(map[string]*group)
	for _, it := range items {
		g, ok := byName[it.Name]
		if !ok {
			g = &group{name: it.Name, category: f.categoryOf(it.ProductID)}
			byName[it.Name] = g
			groups = append(groups, g)
		}
		g.items = append(g.items, it)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hi %s! I'd like to order:\n\n", f.shopName))

	total := decimal.Zero
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("%s *%s*\n", Label(g.category), g.name))
		for _, it := range g.items {
			subtotal := it.Subtotal()
			total = total.Add(subtotal)
			line := fmt.Sprintf("• %dx", it.Quantity)
			if detail := Detail(it); detail != "" {
				line += " " + detail
			}
			sb.WriteString(fmt.Sprintf("%s = %s\n", line, FormatMoney(subtotal)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("*Total: %s*", FormatMoney(total)))
	return sb.String(), total
}

func (f *Formatter) categoryOf(productID string) string {
	if f.categories == nil {
		return ""
	}
	cat, _ := f.categories.CategoryOf(productID)
	return cat
}

// --- Helpers ---

// Label is the decorative emoji for a category; unknown categories get a
// generic one.
func Label(category string) string {
	switch category {
	case enum.CategoryCookies:
		return "🍪"
	case enum.CategoryBrownies:
		return "🍫"
	case enum.CategoryPastries:
		return "🥐"
	case enum.CategoryCakes:
		return "🎂"
	case enum.CategoryBreads:
		return "🍞"
	case enum.CategoryDesserts:
		return "🍰"
	}
	return "🧁"
}

// Detail describes an item's configuration, e.g. "Box of 9 (Walnut)".
// Plain items have no detail.
func Detail(it cart.Item) string {
	switch sel := cart.Normalize(it.Selection).(type) {
	case cart.FixedPack:
		if len(sel.Flavors) == 0 {
			return sel.Pack
		}
		return fmt.Sprintf("%s (%s)", sel.Pack, strings.Join(sel.Flavors, ", "))
	case cart.FlavorQuantity:
		return sel.Flavor
	case cart.FlavorOnly:
		return sel.Flavor
	case cart.MultiFlavor:
		return strings.Join(sel.Flavors, ", ")
	case cart.CookieMix:
		parts := make([]string, 0, len(sel.Counts))
		for _, name := range sel.Names() {
			parts = append(parts, fmt.Sprintf("%s x%d", name, sel.Counts[name]))
		}
		return fmt.Sprintf("Mix of %d: %s", sel.Total(), strings.Join(parts, ", "))
	case cart.SizeFlavorToppings:
		d := sel.Size + ", " + sel.Flavor
		if len(sel.Toppings) > 0 {
			d += " + " + strings.Join(sel.Toppings, ", ")
		}
		return d
	}
	return ""
}

// FormatMoney renders an amount as dollars with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// encode percent-encodes text for a query value, with spaces as %20.
func encode(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
