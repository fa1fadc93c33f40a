package cartstore

import (
	"context"
	"fmt"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
)

// DefaultKey is the well-known key the cart lives under
const DefaultKey = "orderItems"

// Store is the sole durable owner of the cart
type Store struct {
	kv     KV
	key    string
	logger *logger.Logger
}

// NewStore binds a KV backend to a key
func NewStore(kv KV, key string, log *logger.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key, logger: log}
}

// Key returns the key the cart is stored under
func (s *Store) Key() string {
	return s.key
}

// Load returns the persisted cart. A missing or unreadable value yields an
// empty cart; only backend I/O failures are returned as errors.
func (s *Store) Load(ctx context.Context) (models.Cart, error) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return models.EmptyCart(), fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return models.EmptyCart(), nil
	}

	cart, err := Decode(data)
	if err != nil {
		s.logger.Debug("store_value_ignored", "Persisted cart is not valid, treating as empty", "", map[string]interface{}{
			"key":    s.key,
			"reason": err.Error(),
		})
		return models.EmptyCart(), nil
	}
	return cart, nil
}

// Save overwrites the persisted cart. An empty cart clears the key.
func (s *Store) Save(ctx context.Context, cart models.Cart) error {
	if cart.IsEmpty() {
		return s.Clear(ctx)
	}

	data, err := Encode(cart)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Clear removes the persisted cart
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
