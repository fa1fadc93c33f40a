// Package payment simulates the card/UPI/net-banking processor. Charges
// never decline; they only take a while.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
)

// Receipt confirms a successful charge
type Receipt struct {
	Reference string               `json:"reference"`
	Amount    models.Amount        `json:"amount"`
	Method    models.PaymentMethod `json:"method"`
	ChargedAt time.Time            `json:"charged_at"`
}

// Charger is what checkout depends on
type Charger interface {
	Charge(ctx context.Context, amount models.Amount, method models.PaymentMethod) (*Receipt, error)
}

// Gateway approves every charge after a fixed delay
type Gateway struct {
	delay  time.Duration
	logger *logger.Logger
}

var _ Charger = (*Gateway)(nil)

// NewGateway creates a gateway that waits delay before approving
func NewGateway(delay time.Duration, log *logger.Logger) *Gateway {
	return &Gateway{delay: delay, logger: log}
}

// Charge waits for the processing delay and returns a receipt. It fails only
// for a negative amount or when ctx ends first.
func (g *Gateway) Charge(ctx context.Context, amount models.Amount, method models.PaymentMethod) (*Receipt, error) {
	if amount < 0 {
		return nil, fmt.Errorf("cannot charge negative amount %s", amount)
	}

	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("payment cancelled: %w", ctx.Err())
	case <-timer.C:
	}

	receipt := &Receipt{
		Reference: "PAY_" + uuid.NewString(),
		Amount:    amount,
		Method:    method,
		ChargedAt: time.Now().UTC(),
	}

	g.logger.Info("payment_approved", "Payment successful", "", map[string]interface{}{
		"reference": receipt.Reference,
		"amount":    int64(amount),
		"method":    string(method),
	})
	return receipt, nil
}
