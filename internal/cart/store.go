package cart

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sweetcrumb/storefront/internal/storage"
	"go.uber.org/zap"
)

// StorageKey is the fixed key the cart is persisted under.
const StorageKey = "sweetcrumb-cart"

// Storage is the on-device key/value store the cart persists to.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Store owns the cart state. All mutations go through Dispatch; each
// action is reduced, persisted and announced to observers before the
// next one starts.
type Store struct {
	mu        sync.Mutex
	state     State
	storage   Storage
	logger    *zap.Logger
	now       func() time.Time
	observers map[int]func(State)
	nextObs   int
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for LastAdded.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store hydrated from storage. Missing or unreadable
// data yields an empty cart; the error is logged, never returned.
func NewStore(st Storage, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage:   st,
		logger:    logger,
		now:       time.Now,
		observers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = State{Items: s.load()}
	return s
}

func (s *Store) load() []Item {
	if s.storage == nil {
		return []Item{}
	}
	data, err := s.storage.Get(StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("no stored cart, starting empty")
		} else {
			s.logger.Warn("read stored cart failed, starting empty", zap.Error(err))
		}
		return []Item{}
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("stored cart is corrupt, starting empty", zap.Error(err))
		return []Item{}
	}
	valid := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 || it.ID == "" {
			s.logger.Warn("dropping invalid stored item", zap.String("id", it.ID), zap.Int("quantity", it.Quantity))
			continue
		}
		valid = append(valid, it)
	}
	s.logger.Debug("cart hydrated", zap.Int("items", len(valid)))
	return valid
}

func (s *Store) persist(items []Item) {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("encode cart failed", zap.Error(err))
		return
	}
	if err := s.storage.Set(StorageKey, data); err != nil {
		s.logger.Error("persist cart failed", zap.Error(err))
	}
}

// Dispatch applies a to the cart and returns the new state. Observers run
// synchronously under the store lock and must not call Dispatch themselves.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a, s.now())
	if _, ok := a.(ResetTimestamp); !ok {
		s.persist(s.state.Items)
	}
	for _, id := range s.observerIDs() {
		s.observers[id](s.state)
	}
	return s.state
}

func (s *Store) observerIDs() []int {
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids) // subscription order
	return ids
}

// Subscribe registers fn to be called after every action. The returned
// func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Add merges item into the cart.
func (s *Store) Add(item Item) State { return s.Dispatch(Add{Item: item}) }

// Remove deletes the item with id; unknown ids are ignored.
func (s *Store) Remove(id string) State { return s.Dispatch(Remove{ID: id}) }

// UpdateQuantity sets the quantity of id, removing it at 0 or below.
func (s *Store) UpdateQuantity(id string, quantity int) State {
	return s.Dispatch(UpdateQuantity{ID: id, Quantity: quantity})
}

// Clear empties the cart.
func (s *Store) Clear() State { return s.Dispatch(Clear{}) }

// ResetTimestamp clears the last-added marker.
func (s *Store) ResetTimestamp() State { return s.Dispatch(ResetTimestamp{}) }

// State returns a snapshot of the cart.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.state.Items))
	copy(items, s.state.Items)
	return State{Items: items, LastAdded: s.state.LastAdded}
}

// Items returns the line items in insertion order.
func (s *Store) Items() []Item { return s.State().Items }

// Total returns the cart total.
func (s *Store) Total() decimal.Decimal { return s.State().Total() }

// ItemCount returns the number of units in the cart.
func (s *Store) ItemCount() int { return s.State().ItemCount() }

// LastAdded returns the time of the last Add, or zero after any other
// action.
func (s *Store) LastAdded() time.Time { return s.State().LastAdded }
