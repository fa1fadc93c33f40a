package models

import (
	"encoding/json"
	"time"
)

// Notification kinds carried on the notifications exchange
const (
	KindCartChanged = "cart_changed"
	KindOrderPlaced = "order_placed"
	KindContact     = "contact_message"
)

// Envelope wraps every notification so a subscriber can dispatch on Kind
type Envelope struct {
	Kind      string          `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	Body      json.RawMessage `json:"body"`
}

// CartChangedMessage announces that the persisted cart was rewritten
type CartChangedMessage struct {
	Key       string    `json:"key"`
	Origin    string    `json:"origin"`
	Operation string    `json:"operation"`
	Lines     int       `json:"lines"`
	Count     int       `json:"count"`
	Total     Amount    `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedMessage announces a successful checkout
type OrderPlacedMessage struct {
	OrderNumber   string        `json:"order_number"`
	UserID        string        `json:"user_id"`
	Items         int           `json:"items"`
	GrandTotal    Amount        `json:"grand_total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Timestamp     time.Time     `json:"timestamp"`
}

// ContactMessage is a submitted contact form
type ContactMessage struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCartChangedMessage summarizes cart for a change notification
func NewCartChangedMessage(key, origin, operation string, cart Cart) *CartChangedMessage {
	return &CartChangedMessage{
		Key:       key,
		Origin:    origin,
		Operation: operation,
		Lines:     len(cart.Lines),
		Count:     cart.Count(),
		Total:     Total(cart),
		Timestamp: time.Now().UTC(),
	}
}

// NewOrderPlacedMessage summarizes a placed order
func NewOrderPlacedMessage(order *PlacedOrder) *OrderPlacedMessage {
	items := 0
	for _, l := range order.Lines {
		items += l.Quantity
	}
	return &OrderPlacedMessage{
		OrderNumber:   order.Number,
		UserID:        order.UserID,
		Items:         items,
		GrandTotal:    order.Quote.GrandTotal,
		PaymentMethod: order.PaymentMethod,
		Timestamp:     time.Now().UTC(),
	}
}
