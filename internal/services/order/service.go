package order

import (
	"context"
	"fmt"
	"slices"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
	"restaurant-cart/internal/services/payment"
)

// Service records paid carts as orders and looks them up for their owner
type Service struct {
	repo   Repository
	logger *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// Record stores a snapshot of the cart that was charged
func (s *Service) Record(ctx context.Context, userID string, cart models.Cart, quote models.Quote, receipt *payment.Receipt) (*models.PlacedOrder, error) {
	order := &models.PlacedOrder{
		UserID:        userID,
		Lines:         slices.Clone(cart.Lines),
		Quote:         quote,
		PaymentMethod: receipt.Method,
		PaymentRef:    receipt.Reference,
		Status:        models.StatusPaid,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	s.logger.Info("order_recorded", "Order placed", "", map[string]interface{}{
		"order_number": order.Number,
		"user_id":      userID,
		"grand_total":  int64(quote.GrandTotal),
	})
	return order, nil
}

// Get returns the order only when it belongs to userID; other users get ErrNotFound
func (s *Service) Get(ctx context.Context, number, userID string) (*models.PlacedOrder, error) {
	order, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotFound
	}
	return order, nil
}

// List returns userID's orders, newest first
func (s *Service) List(ctx context.Context, userID string) ([]*models.PlacedOrder, error) {
	return s.repo.ListByUser(ctx, userID)
}
