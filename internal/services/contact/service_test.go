package contact

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
	"restaurant-cart/internal/models"
	"restaurant-cart/internal/validation"
)

type captureNotifier struct {
	kind string
	body interface{}
	err  error
}

func (c *captureNotifier) PublishNotification(_ context.Context, kind string, body interface{}) error {
	c.kind, c.body = kind, body
	return c.err
}

func validRequest() Request {
	return Request{Name: "Anil", Email: "anil@example.com", Mobile: "0123456789", Message: "Do you cater weddings?"}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantMsg string
	}{
		{"valid", func(*Request) {}, ""},
		{"missing name", func(r *Request) { r.Name = "" }, "Please fill in all fields"},
		{"blank message", func(r *Request) { r.Message = "   " }, "Please fill in all fields"},
		{"short mobile", func(r *Request) { r.Mobile = "12345" }, "Please enter a valid 10-digit mobile number"},
		{"letters in mobile", func(r *Request) { r.Mobile = "01234abcde" }, "Please enter a valid 10-digit mobile number"},
		{"bad email", func(r *Request) { r.Email = "anil" }, "please enter a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var errs validation.ValidationErrors
			require.True(t, errors.As(err, &errs))
			assert.Equal(t, tt.wantMsg, errs[0].Message)
		})
	}
}

func TestService_Submit(t *testing.T) {
	n := &captureNotifier{}
	svc := NewService(n, logger.Discard())

	msg, err := svc.Submit(context.Background(), validRequest(), "req")
	require.NoError(t, err)
	assert.Equal(t, models.KindContact, n.kind)
	assert.Equal(t, msg, n.body)

	n.err = errors.New("broker down")
	_, err = svc.Submit(context.Background(), validRequest(), "req")
	assert.Error(t, err)
}

func TestService_SubmitWithoutNotifier(t *testing.T) {
	svc := NewService(nil, logger.Discard())
	msg, err := svc.Submit(context.Background(), validRequest(), "req")
	require.NoError(t, err)
	assert.Equal(t, "Anil", msg.Name)
}

func TestHandler_Submit(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(NewService(nil, logger.Discard()), logger.Discard()).RegisterRoutes(mux)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"name":"Anil","email":"anil@example.com","mobile":"0123456789","message":"Hi"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = post(`{"name":"Anil","email":"","mobile":"0123456789","message":"Hi"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Please fill in all fields", body["error"])
}
