package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-cart/internal/logger"
)

func TestWithLogging_AttachesRequestID(t *testing.T) {
	var seen string
	h := WithLogging(logger.Discard(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Len(t, seen, 36)
}

func TestWriteErrorFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorFields(rec, http.StatusBadRequest, "validation failed", "req-1", map[string]string{"email": "is required"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, map[string]interface{}{"email": "is required"}, body["fields"])
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		ID int `json:"id"`
	}

	tests := []struct {
		name        string
		contentType string
		body        string
		wantErr     error
		wantAnyErr  bool
	}{
		{name: "valid", contentType: "application/json", body: `{"id": 3}`},
		{name: "charset parameter", contentType: "application/json; charset=utf-8", body: `{"id": 3}`},
		{name: "wrong content type", contentType: "text/plain", body: `{"id": 3}`, wantErr: ErrUnsupportedMediaType},
		{name: "unknown field", contentType: "application/json", body: `{"id": 3, "qty": 1}`, wantAnyErr: true},
		{name: "malformed", contentType: "application/json", body: `{"id":`, wantAnyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)

			var p payload
			err := DecodeJSON(r, &p)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, 3, p.ID)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	rec := httptest.NewRecorder()
	Health("cart-service", map[string]Check{"store": ok})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Health("cart-service", map[string]Check{"store": ok, "database": down})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := New(0, http.NotFoundHandler(), logger.Discard())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
