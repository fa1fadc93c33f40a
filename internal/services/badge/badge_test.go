package badge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"restaurant-cart/internal/cartstore"
	"restaurant-cart/internal/catalog"
	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
	"restaurant-cart/internal/services/cart"
)

func TestBadge_FollowsAnotherView(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	dir := t.TempDir()

	// the menu view and the badge use separate handles on the same directory
	menuKV, err := cartstore.NewFileKV(dir, logger.Discard())
	require.NoError(t, err)
	badgeKV, err := cartstore.NewFileKV(dir, logger.Discard())
	require.NoError(t, err)

	manager := cart.NewManager(cartstore.NewStore(menuKV, cartstore.DefaultKey, logger.Discard()), "menu", logger.Discard())
	watcher := cartstore.NewWatcher(cartstore.NewStore(badgeKV, cartstore.DefaultKey, logger.Discard()), 20*time.Millisecond, logger.Discard())

	updates := make(chan State, 16)
	b := New(watcher, logger.Discard(), func(s State) { updates <- s })
	require.NoError(t, b.Start(ctx))
	defer b.Stop()

	assert.Equal(t, State{}, <-updates)

	for _, id := range []int{1, 3, 6} {
		item, ok := catalog.FindByID(id)
		require.True(t, ok)
		_, err := manager.AddItem(ctx, item)
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return b.State() == State{Count: 3, Total: 750}
	}, 2*time.Second, 10*time.Millisecond)

	_, err = manager.ClearCart(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return b.State() == State{Count: 0, Total: 0}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBadge_RunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	kv := cartstore.NewMemoryKV()
	store := cartstore.NewStore(kv, cartstore.DefaultKey, logger.Discard())
	require.NoError(t, store.Save(context.Background(), models.EmptyCart().WithItem(models.CatalogItem{ID: 1, Price: 150, Category: models.Veg})))

	b := New(cartstore.NewWatcher(store, 0, logger.Discard(), kv), logger.Discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.Eventually(t, func() bool { return b.State().Count == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
