package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
)

// publishTimeout bounds one publish, including a reconnect attempt
const publishTimeout = 5 * time.Second

// Publisher handles message publishing to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// NotifyCartChanged pushes a change signal to every watcher and a
// notification for the subscriber
func (p *Publisher) NotifyCartChanged(ctx context.Context, msg *models.CartChangedMessage) error {
	if err := p.publishMessage(ctx, CartEventsExchange, msg, false); err != nil {
		return err
	}
	return p.PublishNotification(ctx, models.KindCartChanged, msg)
}

// PublishNotification wraps body in an envelope and publishes it to the notifications fanout exchange
func (p *Publisher) PublishNotification(ctx context.Context, kind string, body interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal notification body: %w", err)
	}

	envelope := models.Envelope{
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Body:      raw,
	}
	return p.publishMessage(ctx, NotificationsExchange, envelope, true)
}

// publishMessage is the generic message publishing function
func (p *Publisher) publishMessage(ctx context.Context, exchange string, message interface{}, persistent bool) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.conn.Channel(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	deliveryMode := amqp091.Transient
	if persistent {
		deliveryMode = amqp091.Persistent
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: deliveryMode,
		Timestamp:    time.Now(),
	}

	err = ch.PublishWithContext(
		ctx,
		exchange, // exchange
		"",       // routing key
		false,    // mandatory
		false,    // immediate
		publishing,
	)
	if err != nil {
		p.logger.Error("message_publish_failed",
			fmt.Sprintf("Failed to publish message to exchange %s", exchange),
			"", err, map[string]interface{}{
				"exchange": exchange,
			})
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("message_published",
		fmt.Sprintf("Published message to exchange %s", exchange),
		"", map[string]interface{}{
			"exchange":     exchange,
			"message_size": len(body),
		})

	return nil
}
