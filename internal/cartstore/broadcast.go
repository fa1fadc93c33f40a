package cartstore

import (
	"context"
	"sync"

	"restaurant-cart/internal/models"
)

// Broadcaster fans a change signal out to every in-process subscriber
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewBroadcaster creates a broadcaster with no subscribers
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan struct{}]struct{})}
}

// Signal wakes every subscriber without blocking; pending signals coalesce
func (b *Broadcaster) Signal() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Events implements EventSource
func (b *Broadcaster) Events(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

// NotifyCartChanged lets the broadcaster act as a cart manager notifier
func (b *Broadcaster) NotifyCartChanged(_ context.Context, _ *models.CartChangedMessage) error {
	b.Signal()
	return nil
}
