package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	zapLogger "github.com/nastyazhadan/restaurant-order/shared/logger/zap"
)

const DefaultKey = "restaurant-cart"

type snapshot struct {
	Version int    `json:"version"`
	Lines   []Line `json:"lines"`
}

const snapshotVersion = 1

// Store is a Cart bound to a Storage. Every mutation is saved before it
// returns; a failed save leaves the in-memory cart updated.
type Store struct {
	mu      sync.Mutex
	cart    *Cart
	storage Storage
	key     string
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// Open rehydrates the cart saved under the store key. Missing data gives an
// empty cart. Unreadable data also gives an empty cart and is logged, so a
// broken save never blocks the visitor.
func Open(ctx context.Context, storage Storage, options ...Option) (*Store, error) {
	const op = "cart.Open"

	store := &Store{
		cart:    New(),
		storage: storage,
		key:     DefaultKey,
	}

	for _, option := range options {
		option(store)
	}

	data, err := storage.Load(ctx, store.key)
	if errors.Is(err, ErrNotFound) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var saved snapshot
	if err = json.Unmarshal(data, &saved); err != nil {
		zapLogger.Error(ctx, "discarding unreadable cart",
			zap.String("key", store.key),
			zap.Error(err),
		)
		return store, nil
	}

	store.cart = New(saved.Lines...)

	return store, nil
}

func (s *Store) AddItem(ctx context.Context, item Item) error {
	return s.mutate(ctx, func(c *Cart) { c.AddItem(item) })
}

func (s *Store) RemoveItem(ctx context.Context, id string) error {
	return s.mutate(ctx, func(c *Cart) { c.RemoveItem(id) })
}

func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	return s.mutate(ctx, func(c *Cart) { c.UpdateQuantity(id, quantity) })
}

func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, func(c *Cart) { c.ClearCart() })
}

func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Items()
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Subtotal()
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.ItemCount()
}

func (s *Store) mutate(ctx context.Context, change func(*Cart)) error {
	const op = "cart.Store.mutate"

	s.mu.Lock()
	defer s.mu.Unlock()

	change(s.cart)

	data, err := json.Marshal(snapshot{Version: snapshotVersion, Lines: s.cart.Items()})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = s.storage.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
