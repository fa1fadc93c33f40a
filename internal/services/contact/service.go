// Package contact accepts the "get in touch" form
package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
	"restaurant-cart/internal/validation"
)

// Notifier forwards accepted messages to staff
type Notifier interface {
	PublishNotification(ctx context.Context, kind string, body interface{}) error
}

type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	Message string `json:"message"`
}

// Validate requires every field, then checks the mobile number and email
func (r Request) Validate() error {
	var c validation.Collector
	for _, f := range []struct{ name, value string }{
		{"name", r.Name},
		{"email", r.Email},
		{"mobile", r.Mobile},
		{"message", r.Message},
	} {
		if validation.Required(f.name, f.value) != nil {
			c.Add(f.name, "Please fill in all fields")
		}
	}
	if err := c.Err(); err != nil {
		return err
	}

	if validation.TenDigitPhone("mobile", r.Mobile) != nil {
		c.Add("mobile", "Please enter a valid 10-digit mobile number")
	}
	c.Check(validation.Email("email", r.Email))
	c.Check(validation.MaxLength("message", r.Message, 2000))
	return c.Err()
}

type Service struct {
	notifier Notifier
	logger   *logger.Logger
}

// NewService creates the service; a nil notifier only logs messages
func NewService(notifier Notifier, log *logger.Logger) *Service {
	return &Service{notifier: notifier, logger: log}
}

// Submit validates and forwards a contact message
func (s *Service) Submit(ctx context.Context, req Request, requestID string) (*models.ContactMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Mobile:    req.Mobile,
		Message:   strings.TrimSpace(req.Message),
		Timestamp: time.Now().UTC(),
	}

	if s.notifier == nil {
		s.logger.Info("contact_received", "Contact message received", requestID, map[string]interface{}{
			"name":  msg.Name,
			"email": msg.Email,
		})
		return msg, nil
	}

	if err := s.notifier.PublishNotification(ctx, models.KindContact, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}
