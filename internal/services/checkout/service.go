// Package checkout reads the cart snapshot at the payment boundary, charges
// the grand total and records the order.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
	"restaurant-cart/internal/services/auth"
	"restaurant-cart/internal/services/cart"
	"restaurant-cart/internal/services/payment"
)

var ErrEmptyCart = errors.New("no items in order")

// SessionSource resolves bearer tokens
type SessionSource interface {
	GetSession(ctx context.Context, token string) (*auth.Session, error)
}

// Recorder persists a paid cart
type Recorder interface {
	Record(ctx context.Context, userID string, c models.Cart, quote models.Quote, receipt *payment.Receipt) (*models.PlacedOrder, error)
}

// Notifier announces placed orders; nil disables announcements
type Notifier interface {
	PublishNotification(ctx context.Context, kind string, body interface{}) error
}

type Options struct {
	TaxBasisPoints int64
	DeliveryFee    models.Amount
	// ClearOnSuccess empties the cart once the order is recorded, unless it
	// changed while the payment was in flight. Off by default: the cart is
	// left for the customer to clear.
	ClearOnSuccess bool
}

// Result describes a completed checkout
type Result struct {
	Order       *models.PlacedOrder `json:"order"`
	Receipt     *payment.Receipt    `json:"receipt"`
	CartCleared bool                `json:"cart_cleared"`
}

type Service struct {
	sessions SessionSource
	carts    *cart.Manager
	charger  payment.Charger
	orders   Recorder
	notifier Notifier
	opts     Options
	logger   *logger.Logger
}

func NewService(sessions SessionSource, carts *cart.Manager, charger payment.Charger, orders Recorder, notifier Notifier, opts Options, log *logger.Logger) *Service {
	return &Service{
		sessions: sessions,
		carts:    carts,
		charger:  charger,
		orders:   orders,
		notifier: notifier,
		opts:     opts,
		logger:   log,
	}
}

// Quote derives tax, delivery fee and grand total for c
func (s *Service) Quote(c models.Cart) models.Quote {
	return models.NewQuote(s.carts.Total(c), s.opts.TaxBasisPoints, s.opts.DeliveryFee)
}

// Preview loads the current cart and its quote without charging
func (s *Service) Preview(ctx context.Context) (models.Cart, models.Quote, error) {
	c, err := s.carts.Cart(ctx)
	if err != nil {
		return c, models.Quote{}, err
	}
	return c, s.Quote(c), nil
}

// Checkout charges the current cart for the session behind token. The
// session is checked once on entry. The cart itself is only read unless
// ClearOnSuccess is set.
func (s *Service) Checkout(ctx context.Context, token string, method models.PaymentMethod, requestID string) (*Result, error) {
	sess, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.Cart(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	quote := s.Quote(c)
	receipt, err := s.charger.Charge(ctx, quote.GrandTotal, method)
	if err != nil {
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	order, err := s.orders.Record(ctx, sess.UserID, c, quote, receipt)
	if err != nil {
		s.logger.Error("order_record_failed", "Payment taken but order not recorded", requestID, err, map[string]interface{}{
			"payment_reference": receipt.Reference,
			"user_id":           sess.UserID,
		})
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.PublishNotification(ctx, models.KindOrderPlaced, models.NewOrderPlacedMessage(order)); err != nil {
			s.logger.Warn("order_notify_failed", "Failed to announce order", requestID, map[string]interface{}{
				"order_number": order.Number,
				"error":        err.Error(),
			})
		}
	}

	result := &Result{Order: order, Receipt: receipt}
	if s.opts.ClearOnSuccess {
		cleared, err := s.carts.ClearIfUnchanged(ctx, c)
		switch {
		case err != nil:
			s.logger.Error("cart_clear_failed", "Order placed but cart not cleared", requestID, err, map[string]interface{}{
				"order_number": order.Number,
			})
		case !cleared:
			s.logger.Info("cart_kept", "Cart changed during payment, left for the customer", requestID, map[string]interface{}{
				"order_number": order.Number,
			})
		}
		result.CartCleared = cleared
	}

	s.logger.Info("checkout_completed", "Payment successful", requestID, map[string]interface{}{
		"order_number": order.Number,
		"grand_total":  int64(quote.GrandTotal),
		"cart_cleared": result.CartCleared,
	})
	return result, nil
}
