// Package notification prints human-readable lines for cart, order and
// contact events published on the notifications exchange.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/messaging"
	"restaurant-cart/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// Source delivers raw message bodies to a handler until ctx is done
type Source interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
}

// Subscriber handles notification messages
type Subscriber struct {
	source Source
	out    io.Writer
	logger *logger.Logger
}

// NewSubscriber creates a new notification subscriber writing to out
func NewSubscriber(source Source, out io.Writer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		source: source,
		out:    out,
		logger: log,
	}
}

// Start consumes until ctx is done
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.source.StartConsuming(ctx, s.handleNotification)
	if errors.Is(err, context.Canceled) {
		s.logger.Info("graceful_shutdown", "Notification subscriber stopped", requestID, nil)
		return nil
	}
	if err != nil {
		s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
	}
	return err
}

// handleNotification renders one envelope. Unknown kinds are acknowledged
// and skipped; malformed bodies are rejected.
func (s *Subscriber) handleNotification(_ context.Context, body []byte) error {
	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	line, err := formatNotification(&env)
	if err != nil {
		return err
	}
	if line == "" {
		s.logger.Warn("notification_skipped", "Unknown notification kind", "", map[string]interface{}{
			"kind": env.Kind,
		})
		return nil
	}

	fmt.Fprintln(s.out, line)
	s.logger.Info("notification_displayed", "Notification displayed to user", "", map[string]interface{}{
		"kind":      env.Kind,
		"timestamp": env.Timestamp.Format(timeLayout),
	})
	return nil
}

// formatNotification creates a human-readable notification message
func formatNotification(env *models.Envelope) (string, error) {
	timestamp := env.Timestamp.Format(timeLayout)

	switch env.Kind {
	case models.KindCartChanged:
		var m models.CartChangedMessage
		if err := json.Unmarshal(env.Body, &m); err != nil {
			return "", fmt.Errorf("failed to parse %s body: %w", env.Kind, err)
		}
		if m.Count == 0 {
			return fmt.Sprintf("🛒 [%s] Cart is now empty (%s).", timestamp, m.Operation), nil
		}
		return fmt.Sprintf("🛒 [%s] Cart updated (%s): %d item(s), total %s.",
			timestamp, m.Operation, m.Count, m.Total), nil

	case models.KindOrderPlaced:
		var m models.OrderPlacedMessage
		if err := json.Unmarshal(env.Body, &m); err != nil {
			return "", fmt.Errorf("failed to parse %s body: %w", env.Kind, err)
		}
		return fmt.Sprintf("🎉 [%s] Order %s placed: %d item(s), paid %s by %s.",
			timestamp, m.OrderNumber, m.Items, m.GrandTotal, m.PaymentMethod), nil

	case models.KindContact:
		var m models.ContactMessage
		if err := json.Unmarshal(env.Body, &m); err != nil {
			return "", fmt.Errorf("failed to parse %s body: %w", env.Kind, err)
		}
		return fmt.Sprintf("✉️ [%s] Message from %s <%s>, %s: %q",
			timestamp, m.Name, m.Email, m.Mobile, m.Message), nil

	default:
		return "", nil
	}
}
