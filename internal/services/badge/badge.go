// Package badge is the header cart badge: a view that never writes the cart
// and keeps a disposable copy of its count and total.
package badge

import (
	"context"
	"sync"

	"restaurant-cart/internal/cartstore"
	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
)

// State is what the badge renders
type State struct {
	Count int           `json:"count"`
	Total models.Amount `json:"total"`
}

// Badge follows the store through a watcher
type Badge struct {
	watcher *cartstore.Watcher
	logger  *logger.Logger

	mu       sync.RWMutex
	state    State
	onUpdate func(State)
}

// New creates a badge over watcher; onUpdate, if set, runs on every change
func New(watcher *cartstore.Watcher, log *logger.Logger, onUpdate func(State)) *Badge {
	return &Badge{
		watcher:  watcher,
		logger:   log,
		onUpdate: onUpdate,
	}
}

// Start begins following the store
func (b *Badge) Start(ctx context.Context) error {
	return b.watcher.Start(ctx, b.render)
}

// Stop tears the view down; no timer or subscription outlives it
func (b *Badge) Stop() {
	b.watcher.Stop()
}

// State returns the last rendered state
func (b *Badge) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Run starts the badge and blocks until ctx is done
func (b *Badge) Run(ctx context.Context) error {
	if err := b.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	b.Stop()
	return nil
}

func (b *Badge) render(c models.Cart) {
	s := State{Count: c.Count(), Total: models.Total(c)}

	b.mu.Lock()
	b.state = s
	b.mu.Unlock()

	b.logger.Info("badge_updated", "Cart badge updated", "", map[string]interface{}{
		"count": s.Count,
		"total": s.Total.String(),
	})
	if b.onUpdate != nil {
		b.onUpdate(s)
	}
}
