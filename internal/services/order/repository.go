// Package order records placed orders and serves them back to their owner.
package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"restaurant-cart/internal/models"
)

var ErrNotFound = errors.New("order not found")

// Repository stores placed orders. Create assigns ID, Number and CreatedAt.
type Repository interface {
	Create(ctx context.Context, order *models.PlacedOrder) error
	GetByNumber(ctx context.Context, number string) (*models.PlacedOrder, error)
	ListByUser(ctx context.Context, userID string) ([]*models.PlacedOrder, error)
}

// MemoryRepository keeps orders for the life of the process
type MemoryRepository struct {
	mu     sync.RWMutex
	orders []*models.PlacedOrder
	now    func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, order *models.PlacedOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	prefix := dayPrefix(now)
	seq := 1
	for _, o := range r.orders {
		if strings.HasPrefix(o.Number, prefix) {
			seq++
		}
	}

	order.ID = len(r.orders) + 1
	order.Number = models.GenerateOrderNumber(now, seq)
	order.CreatedAt = now

	stored := *order
	stored.Lines = slices.Clone(order.Lines)
	r.orders = append(r.orders, &stored)
	return nil
}

func (r *MemoryRepository) GetByNumber(_ context.Context, number string) (*models.PlacedOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.Number == number {
			return cloneOrder(o), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*models.PlacedOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.PlacedOrder
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, cloneOrder(r.orders[i]))
		}
	}
	return out, nil
}

func cloneOrder(o *models.PlacedOrder) *models.PlacedOrder {
	c := *o
	c.Lines = slices.Clone(o.Lines)
	return &c
}

// dayPrefix is the shared prefix of every order number issued on t's UTC date
func dayPrefix(t time.Time) string {
	return fmt.Sprintf("ORD_%s_", t.UTC().Format("20060102"))
}
