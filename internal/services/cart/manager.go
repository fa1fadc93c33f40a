// Package cart turns user intents into cart store writes while keeping the
// cart invariants: unique ids, no zero-quantity lines, last write wins.
package cart

import (
	"context"
	"fmt"
	"sync"

	"restaurant-cart/internal/cartstore"
	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
)

// Operations reported in change notifications
const (
	OpAddItem        = "add_item"
	OpUpdateQuantity = "update_quantity"
	OpRemoveItem     = "remove_item"
	OpClearCart      = "clear_cart"
)

// ErrDeltaOutOfRange is returned by UpdateQuantity for a delta larger in
// magnitude than models.MaxLineQuantity
var ErrDeltaOutOfRange = fmt.Errorf("delta must be between %d and %d", -models.MaxLineQuantity, models.MaxLineQuantity)

// ChangeNotifier is told about every applied change. Delivery is best effort.
type ChangeNotifier interface {
	NotifyCartChanged(ctx context.Context, msg *models.CartChangedMessage) error
}

// Manager serializes read-modify-write cycles against one store
type Manager struct {
	mu        sync.Mutex
	store     *cartstore.Store
	origin    string
	notifiers []ChangeNotifier
	logger    *logger.Logger
}

// NewManager creates a manager writing through store. origin identifies this
// writer in change notifications.
func NewManager(store *cartstore.Store, origin string, log *logger.Logger, notifiers ...ChangeNotifier) *Manager {
	return &Manager{
		store:     store,
		origin:    origin,
		notifiers: notifiers,
		logger:    log,
	}
}

// Cart re-reads the persisted cart
func (m *Manager) Cart(ctx context.Context) (models.Cart, error) {
	return m.store.Load(ctx)
}

// Total is the pure line sum; zero for an empty cart
func (m *Manager) Total(c models.Cart) models.Amount {
	return models.Total(c)
}

// AddItem increments the line for item or appends it with quantity 1
func (m *Manager) AddItem(ctx context.Context, item models.CatalogItem) (models.Cart, error) {
	return m.apply(ctx, OpAddItem, func(c models.Cart) models.Cart {
		return c.WithItem(item)
	})
}

// UpdateQuantity adds delta to line id. A result of zero or less removes the
// line; an unknown id changes nothing.
func (m *Manager) UpdateQuantity(ctx context.Context, id, delta int) (models.Cart, error) {
	if delta < -models.MaxLineQuantity || delta > models.MaxLineQuantity {
		return models.EmptyCart(), ErrDeltaOutOfRange
	}
	return m.apply(ctx, OpUpdateQuantity, func(c models.Cart) models.Cart {
		return c.WithDelta(id, delta)
	})
}

// RemoveItem drops line id if present
func (m *Manager) RemoveItem(ctx context.Context, id int) (models.Cart, error) {
	return m.apply(ctx, OpRemoveItem, func(c models.Cart) models.Cart {
		return c.Without(id)
	})
}

// ClearCart resets the cart and removes the persisted key
func (m *Manager) ClearCart(ctx context.Context) (models.Cart, error) {
	return m.apply(ctx, OpClearCart, func(models.Cart) models.Cart {
		return models.EmptyCart()
	})
}

// ClearIfUnchanged clears the cart only when the persisted cart still equals
// expected. It reports whether the cart was cleared.
func (m *Manager) ClearIfUnchanged(ctx context.Context, expected models.Cart) (bool, error) {
	cleared := false
	_, err := m.apply(ctx, OpClearCart, func(c models.Cart) models.Cart {
		if !c.Equal(expected) {
			return c
		}
		cleared = true
		return models.EmptyCart()
	})
	if err != nil {
		return false, err
	}
	return cleared, nil
}

// apply runs one read-modify-write under the lock and notifies after
// releasing it. On a store failure the previous cart is returned with the
// error and nothing was written.
func (m *Manager) apply(ctx context.Context, op string, next func(models.Cart) models.Cart) (models.Cart, error) {
	updated, msg, err := m.write(ctx, op, next)
	if err != nil {
		return updated, err
	}
	if msg != nil {
		m.notify(ctx, msg)
	}
	return updated, nil
}

func (m *Manager) write(ctx context.Context, op string, next func(models.Cart) models.Cart) (models.Cart, *models.CartChangedMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.store.Load(ctx)
	if err != nil {
		return current, nil, err
	}

	updated := next(current)
	if err := m.store.Save(ctx, updated); err != nil {
		m.logger.Error("store_save_failed", "Cart change not applied", "", err, map[string]interface{}{
			"operation": op,
		})
		return current, nil, err
	}

	if updated.Equal(current) {
		return updated, nil, nil
	}
	return updated, models.NewCartChangedMessage(m.store.Key(), m.origin, op, updated), nil
}

func (m *Manager) notify(ctx context.Context, msg *models.CartChangedMessage) {
	for _, n := range m.notifiers {
		if err := n.NotifyCartChanged(ctx, msg); err != nil {
			m.logger.Warn("cart_notify_failed", "Failed to announce cart change", "", map[string]interface{}{
				"operation": msg.Operation,
				"error":     err.Error(),
			})
		}
	}
}
