package checkout

import (
	"context"
	"errors"
	"net/http"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
	"restaurant-cart/internal/server"
	"restaurant-cart/internal/services/auth"
)

// Handler handles HTTP requests for the payment step
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new checkout handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes adds the /checkout routes to mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /checkout/quote", h.GetQuote)
	mux.HandleFunc("POST /checkout", h.Checkout)
}

type quoteResponse struct {
	Items []models.OrderLine `json:"items"`
	models.Quote
	GrandTotalDisplay string `json:"grand_total_display"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// GetQuote handles GET /checkout/quote
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	c, quote, err := h.service.Preview(r.Context())
	if err != nil {
		h.logger.Error("cart_store_failed", "Failed to load cart for quote", requestID, err, nil)
		server.WriteError(w, http.StatusServiceUnavailable, "Cart unavailable, please try again", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, quoteResponse{
		Items:             c.Lines,
		Quote:             quote,
		GrandTotalDisplay: quote.GrandTotal.String(),
	}, requestID)
}

// Checkout handles POST /checkout {"payment_method": "card|upi|netbanking"}
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	var req checkoutRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		h.badRequest(w, err, requestID)
		return
	}

	method, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		server.WriteErrorFields(w, http.StatusBadRequest, err.Error(), requestID, map[string]string{
			"payment_method": err.Error(),
		})
		return
	}

	result, err := h.service.Checkout(r.Context(), auth.BearerToken(r), method, requestID)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusCreated, result, requestID)
	case errors.Is(err, auth.ErrNoSession):
		server.WriteError(w, http.StatusUnauthorized, "Please login to continue", requestID)
	case errors.Is(err, ErrEmptyCart):
		server.WriteError(w, http.StatusBadRequest, "No items in order", requestID)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		server.WriteError(w, http.StatusGatewayTimeout, "Payment was interrupted, please try again", requestID)
	default:
		h.logger.Error("checkout_failed", "Checkout failed", requestID, err, nil)
		server.WriteError(w, http.StatusBadGateway, "Payment failed, please try again", requestID)
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, server.ErrUnsupportedMediaType) {
		server.WriteError(w, http.StatusUnsupportedMediaType, err.Error(), requestID)
		return
	}
	server.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}, requestID string) {
	if err := server.WriteJSON(w, status, v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}
