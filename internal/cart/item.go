package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sweetcrumb/storefront/internal/enum"
)

// ErrUnknownSelection is returned when decoding an item whose type tag is
// not a known selection shape.
var ErrUnknownSelection = errors.New("unknown selection type")

// keyNamespace scopes the UUIDv5 composite keys to cart line items.
var keyNamespace = uuid.MustParse("8f1c2a4e-5b7d-4c3e-9a61-2d0f6b8e4c17")

// Item is one configured line in the cart.
type Item struct {
	ID        string
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.NullDecimal
	PackPrice decimal.NullDecimal
	Image     string
	Selection Selection
}

// Kind returns the selection shape tag of the item.
func (i Item) Kind() string {
	return Normalize(i.Selection).Kind()
}

// EffectivePrice is the pack price if set, else the unit price, else zero.
func (i Item) EffectivePrice() decimal.Decimal {
	if i.PackPrice.Valid {
		return i.PackPrice.Decimal
	}
	if i.UnitPrice.Valid {
		return i.UnitPrice.Decimal
	}
	return decimal.Zero
}

// Subtotal is quantity × effective price.
func (i Item) Subtotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Key derives the composite key for a product configuration. Equal
// selections (after normalization) always map to the same key and
// different ones to different keys.
func Key(productID string, sel Selection) string {
	sel = Normalize(sel)
	canonical, err := json.Marshal(struct {
		ProductID string    `json:"p"`
		Kind      string    `json:"k"`
		Selection Selection `json:"s"`
	}{productID, sel.Kind(), sel})
	if err != nil {
		// Selections are plain data; fall back to the %#v rendering so the
		// key stays deterministic.
		canonical = []byte(fmt.Sprintf("%s|%s|%#v", productID, sel.Kind(), sel))
	}
	return productID + ":" + uuid.NewSHA1(keyNamespace, canonical).String()
}

// itemJSON is the persisted form of an Item.
type itemJSON struct {
	ID        string              `json:"id"`
	ProductID string              `json:"product_id"`
	Name      string              `json:"name"`
	Quantity  int                 `json:"quantity"`
	UnitPrice decimal.NullDecimal `json:"unit_price"`
	PackPrice decimal.NullDecimal `json:"pack_price"`
	Image     string              `json:"image,omitempty"`
	Type      string              `json:"type"`
	Selection json.RawMessage     `json:"selection,omitempty"`
}

// MarshalJSON encodes the item with its selection tagged by type.
func (i Item) MarshalJSON() ([]byte, error) {
	sel := Normalize(i.Selection)
	raw, err := json.Marshal(sel)
	if err != nil {
		return nil, fmt.Errorf("encode selection: %w", err)
	}
	return json.Marshal(itemJSON{
		ID:        i.ID,
		ProductID: i.ProductID,
		Name:      i.Name,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
		PackPrice: i.PackPrice,
		Image:     i.Image,
		Type:      sel.Kind(),
		Selection: raw,
	})
}

// UnmarshalJSON decodes an item, choosing the selection variant by type.
func (i *Item) UnmarshalJSON(data []byte) error {
	var w itemJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	sel, err := decodeSelection(w.Type, w.Selection)
	if err != nil {
		return err
	}
	*i = Item{
		ID:        w.ID,
		ProductID: w.ProductID,
		Name:      w.Name,
		Quantity:  w.Quantity,
		UnitPrice: w.UnitPrice,
		PackPrice: w.PackPrice,
		Image:     w.Image,
		Selection: sel,
	}
	return nil
}

func decodeSelection(kind string, raw json.RawMessage) (Selection, error) {
	var (
		sel Selection
		err error
	)
	switch kind {
	case enum.KindPlain, "":
		return Plain{}, nil
	case enum.KindFixedPack:
		var s FixedPack
		err = unmarshalSelection(raw, &s)
		sel = s
	case enum.KindFlavorQuantity:
		var s FlavorQuantity
		err = unmarshalSelection(raw, &s)
		sel = s
	case enum.KindFlavorOnly:
		var s FlavorOnly
		err = unmarshalSelection(raw, &s)
		sel = s
	case enum.KindMultiFlavor:
		var s MultiFlavor
		err = unmarshalSelection(raw, &s)
		sel = s
	case enum.KindCookieMix:
		var s CookieMix
		err = unmarshalSelection(raw, &s)
		sel = s
	case enum.KindSizeFlavorToppings:
		var s SizeFlavorToppings
		err = unmarshalSelection(raw, &s)
		sel = s
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelection, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s selection: %w", kind, err)
	}
	return sel, nil
}

func unmarshalSelection(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
