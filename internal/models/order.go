package models

import (
	"fmt"
	"time"
)

// PaymentMethod is how the customer chose to pay
type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
)

// ParsePaymentMethod validates a payment method; empty means card
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case "":
		return PaymentCard, nil
	case PaymentCard, PaymentUPI, PaymentNetBanking:
		return PaymentMethod(s), nil
	default:
		return "", fmt.Errorf("payment_method must be one of: card, upi, netbanking")
	}
}

// OrderStatus represents the status of a placed order
type OrderStatus string

const (
	StatusPaid OrderStatus = "paid"
)

// PlacedOrder is the snapshot recorded after a successful checkout
type PlacedOrder struct {
	ID            int           `json:"id,omitempty"`
	Number        string        `json:"order_number"`
	UserID        string        `json:"user_id"`
	Lines         []OrderLine   `json:"items"`
	Quote         Quote         `json:"totals"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentRef    string        `json:"payment_reference"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// GenerateOrderNumber generates an order number in format ORD_YYYYMMDD_NNN
func GenerateOrderNumber(date time.Time, sequence int) string {
	dateStr := date.UTC().Format("20060102")
	return fmt.Sprintf("ORD_%s_%03d", dateStr, sequence)
}
