package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/messaging"
	"restaurant-cart/internal/models"
)

// fakeSource replays bodies and records what the handler returned
type fakeSource struct {
	bodies [][]byte
	errs   []error
}

func (f *fakeSource) StartConsuming(ctx context.Context, handler messaging.MessageHandler) error {
	for _, b := range f.bodies {
		f.errs = append(f.errs, handler(ctx, b))
	}
	return context.Canceled
}

func envelope(t *testing.T, kind string, body interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	data, err := json.Marshal(models.Envelope{
		Kind:      kind,
		Timestamp: time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC),
		Body:      raw,
	})
	require.NoError(t, err)
	return data
}

func TestSubscriber_RendersEachKind(t *testing.T) {
	src := &fakeSource{bodies: [][]byte{
		envelope(t, models.KindCartChanged, models.CartChangedMessage{Operation: "add_item", Count: 3, Total: 750}),
		envelope(t, models.KindCartChanged, models.CartChangedMessage{Operation: "clear_cart"}),
		envelope(t, models.KindOrderPlaced, models.OrderPlacedMessage{OrderNumber: "ORD_20240301_001", Items: 3, GrandTotal: 838, PaymentMethod: models.PaymentUPI}),
		envelope(t, models.KindContact, models.ContactMessage{Name: "Anil", Email: "anil@example.com", Mobile: "0123456789", Message: "Hi"}),
		envelope(t, "kitchen_status", map[string]string{"x": "y"}),
	}}

	var out bytes.Buffer
	s := NewSubscriber(src, &out, logger.Discard())
	require.NoError(t, s.Start(context.Background()))

	for _, err := range src.errs {
		assert.NoError(t, err)
	}

	lines := out.String()
	assert.Contains(t, lines, "[2024-03-01 19:30:00] Cart updated (add_item): 3 item(s), total ₹750.")
	assert.Contains(t, lines, "Cart is now empty (clear_cart).")
	assert.Contains(t, lines, "Order ORD_20240301_001 placed: 3 item(s), paid ₹838 by upi.")
	assert.Contains(t, lines, `Message from Anil <anil@example.com>, 0123456789: "Hi"`)
	assert.NotContains(t, lines, "kitchen_status")
}

func TestSubscriber_RejectsMalformed(t *testing.T) {
	src := &fakeSource{bodies: [][]byte{
		[]byte("not json"),
		[]byte(`{"kind":"order_placed","timestamp":"2024-03-01T00:00:00Z","body":"oops"}`),
	}}

	s := NewSubscriber(src, &bytes.Buffer{}, logger.Discard())
	require.NoError(t, s.Start(context.Background()))

	require.Len(t, src.errs, 2)
	assert.Error(t, src.errs[0])
	assert.Error(t, src.errs[1])
}
