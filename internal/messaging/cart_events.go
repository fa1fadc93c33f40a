package messaging

import (
	"context"
	"fmt"

	"restaurant-cart/internal/logger"
)

// CartEvents turns cart_events fanout deliveries into change signals for a
// store watcher in another process
type CartEvents struct {
	conn   *Connection
	logger *logger.Logger
}

// NewCartEvents creates an event source bound to conn
func NewCartEvents(conn *Connection, log *logger.Logger) *CartEvents {
	return &CartEvents{conn: conn, logger: log}
}

// Events binds a private auto-delete queue to the cart_events exchange.
// The returned channel is closed when ctx is done or the broker channel closes.
func (e *CartEvents) Events(ctx context.Context) (<-chan struct{}, error) {
	ch, err := e.conn.OpenChannel(ctx)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare cart events queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", CartEventsExchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind cart events queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to consume cart events: %w", err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer ch.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-deliveries:
				if !ok {
					e.logger.Warn("cart_events_closed", "Cart events channel closed", "", nil)
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}
