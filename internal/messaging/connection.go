package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-cart/internal/logger"
)

// Exchange and queue names
const (
	CartEventsExchange    = "cart_events"
	NotificationsExchange = "notifications_fanout"
	NotificationsQueue    = "notifications_queue"
)

const (
	startupAttempts = 5
	dialTimeout     = 3 * time.Second
)

// Connection wraps a RabbitMQ connection with reconnection logic
type Connection struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New creates a new RabbitMQ connection and declares the topology
func New(ctx context.Context, url string, log *logger.Logger) (*Connection, error) {
	conn := &Connection{
		logger: log,
		url:    url,
	}

	if err := conn.connect(ctx, startupAttempts); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}

	return conn, nil
}

// connect establishes connection to RabbitMQ, retrying with backoff up to
// maxRetries attempts
func (c *Connection) connect(ctx context.Context, maxRetries int) error {
	var err error

	for i := 0; i < maxRetries; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		c.conn, err = amqp091.DialConfig(c.url, amqp091.Config{
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
			Dial:      amqp091.DefaultDial(dialTimeout),
		})
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if setupErr := setupTopology(c.channel); setupErr != nil {
					c.logger.Error("rabbitmq_setup_failed", "Failed to set up topology", "startup", setupErr, nil)
					c.close()
					err = setupErr
				} else {
					return nil
				}
			} else {
				c.conn.Close()
			}
		}

		if err != nil {
			c.conn, c.channel = nil, nil
		}

		if i < maxRetries-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
			}
		}
	}

	if maxRetries == 1 {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

// setupTopology declares both fanout exchanges and the durable notifications queue
func setupTopology(ch *amqp091.Channel) error {
	for _, name := range []string{CartEventsExchange, NotificationsExchange} {
		err := ch.ExchangeDeclare(
			name,     // name
			"fanout", // type
			true,     // durable
			false,    // auto-deleted
			false,    // internal
			false,    // no-wait
			nil,      // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to declare %s exchange: %w", name, err)
		}
	}

	_, err := ch.QueueDeclare(
		NotificationsQueue, // name
		true,               // durable
		false,              // delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare notifications queue: %w", err)
	}

	err = ch.QueueBind(
		NotificationsQueue,    // queue name
		"",                    // routing key (ignored for fanout)
		NotificationsExchange, // exchange
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to bind notifications queue: %w", err)
	}

	return nil
}

// Channel returns the shared channel. A dropped connection gets a single
// reconnect attempt; the backoff loop only runs at startup.
func (c *Connection) Channel(ctx context.Context) (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed() {
		c.close()
		if err := c.connect(ctx, 1); err != nil {
			return nil, fmt.Errorf("failed to reconnect: %w", err)
		}
	}
	return c.channel, nil
}

// OpenChannel opens a dedicated channel, e.g. for a consumer that must not
// share flow control with publishers
func (c *Connection) OpenChannel(ctx context.Context) (*amqp091.Channel, error) {
	if _, err := c.Channel(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Channel()
}

// Close closes the connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		if err != nil && err != amqp091.ErrClosed {
			return err
		}
	}
	return nil
}

// IsClosed checks if the connection is closed
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == nil || c.conn.IsClosed()
}
