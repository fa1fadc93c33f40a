package cartstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
)

// DefaultPollInterval bounds how stale a view can get when no event arrives
const DefaultPollInterval = 500 * time.Millisecond

// ChangeFunc receives the freshly loaded cart after it differs from the last one seen
type ChangeFunc func(models.Cart)

// Watcher keeps a view converged with the store. It re-reads on every event
// from its sources and on every poll tick; either path alone is enough.
type Watcher struct {
	store    *Store
	interval time.Duration
	sources  []EventSource
	logger   *logger.Logger

	mu      sync.RWMutex
	last    models.Cart
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWatcher creates a stopped watcher; interval <= 0 means DefaultPollInterval
func NewWatcher(store *Store, interval time.Duration, log *logger.Logger, sources ...EventSource) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		store:    store,
		interval: interval,
		sources:  sources,
		logger:   log,
		last:     models.EmptyCart(),
	}
}

// Start loads the current cart, reports it to onChange and then keeps
// watching until Stop is called or ctx is done. A source that fails to
// start is logged and skipped; polling still runs.
func (w *Watcher) Start(ctx context.Context, onChange ChangeFunc) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	w.running = true
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	initial, err := w.store.Load(ctx)
	if err != nil {
		w.logger.Error("store_load_failed", "Initial cart load failed", "", err, nil)
	}
	w.setLast(initial)
	if onChange != nil {
		onChange(initial)
	}

	signals := make(chan struct{}, 1)
	for _, src := range w.sources {
		events, err := src.Events(ctx)
		if err != nil {
			w.logger.Warn("event_source_unavailable", "Falling back to polling for one event source", "", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		w.wg.Add(1)
		go w.forward(ctx, events, signals)
	}

	w.wg.Add(1)
	go w.run(ctx, signals, onChange)

	return nil
}

// Stop cancels polling and event subscriptions and waits for them to exit.
// It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

// Current returns the last cart the watcher observed. It is a cache: re-read
// the store before basing a mutation on it.
func (w *Watcher) Current() models.Cart {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}

func (w *Watcher) setLast(c models.Cart) {
	w.mu.Lock()
	w.last = c
	w.mu.Unlock()
}

func (w *Watcher) forward(ctx context.Context, events <-chan struct{}, signals chan<- struct{}) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			// sources close their channel after ctx is done
			for range events {
			}
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			select {
			case signals <- struct{}{}:
			default:
			}
		}
	}
}

func (w *Watcher) run(ctx context.Context, signals <-chan struct{}, onChange ChangeFunc) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-signals:
		}

		w.refresh(ctx, onChange)
	}
}

func (w *Watcher) refresh(ctx context.Context, onChange ChangeFunc) {
	cart, err := w.store.Load(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("store_load_failed", "Failed to refresh cart", "", err, nil)
		}
		return
	}

	if cart.Equal(w.Current()) {
		return
	}
	w.setLast(cart)

	if onChange != nil {
		onChange(cart)
	}
}
