package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the cart contents plus the transient "last added" timestamp.
// A zero LastAdded means no add is pending an animation.
type State struct {
	Items     []Item
	LastAdded time.Time
}

// Total is Σ quantity × effective price over the items.
func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// ItemCount is Σ quantity over the items.
func (s State) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Find returns the item with the given id.
func (s State) Find(id string) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Action is a cart mutation. Reduce applies one to a State.
type Action interface {
	reduce(s State, now time.Time) State
}

// Add merges an item into the cart by composite key.
type Add struct{ Item Item }

// Remove deletes the item with the given id, if present.
type Remove struct{ ID string }

// UpdateQuantity sets an item's quantity; values below 1 remove it.
type UpdateQuantity struct {
	ID       string
	Quantity int
}

// Clear empties the cart.
type Clear struct{}

// ResetTimestamp clears LastAdded without touching items.
type ResetTimestamp struct{}

// Reduce returns the state after applying a. The input state is never
// modified.
func Reduce(s State, a Action, now time.Time) State {
	return a.reduce(s, now)
}

func (a Add) reduce(s State, now time.Time) State {
	candidate := a.Item
	candidate.Selection = Normalize(candidate.Selection)
	if candidate.Quantity < 1 {
		candidate.Quantity = 1
	}
	key := Key(candidate.ProductID, candidate.Selection)

	items := make([]Item, 0, len(s.Items)+1)
	merged := false
	for _, it := range s.Items {
		if it.ID == key {
			it.Quantity += candidate.Quantity
			merged = true
		}
		items = append(items, it)
	}
	if !merged {
		candidate.ID = key
		items = append(items, candidate)
	}
	return State{Items: items, LastAdded: now}
}

func (a Remove) reduce(s State, _ time.Time) State {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.ID != a.ID {
			items = append(items, it)
		}
	}
	return State{Items: items}
}

func (a UpdateQuantity) reduce(s State, _ time.Time) State {
	q := a.Quantity
	if q < 0 {
		q = 0
	}
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.ID == a.ID {
			it.Quantity = q
		}
		if it.Quantity > 0 {
			items = append(items, it)
		}
	}
	return State{Items: items}
}

func (Clear) reduce(State, time.Time) State {
	return State{Items: []Item{}}
}

func (ResetTimestamp) reduce(s State, _ time.Time) State {
	return State{Items: s.Items}
}
