package order

import (
	"context"
	"errors"
	"net/http"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/models"
	"restaurant-cart/internal/server"
	"restaurant-cart/internal/services/auth"
)

// SessionSource resolves bearer tokens
type SessionSource interface {
	GetSession(ctx context.Context, token string) (*auth.Session, error)
}

// Handler handles HTTP requests for placed orders
type Handler struct {
	service  *Service
	sessions SessionSource
	logger   *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, sessions SessionSource, log *logger.Logger) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		logger:   log,
	}
}

// RegisterRoutes adds the /orders routes to mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /orders", h.ListOrders)
	mux.HandleFunc("GET /orders/{number}", h.GetOrder)
}

// GetOrder handles GET /orders/{number}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	sess, ok := h.session(w, r, requestID)
	if !ok {
		return
	}

	number := r.PathValue("number")
	order, err := h.service.Get(r.Context(), number, sess.UserID)
	if errors.Is(err, ErrNotFound) {
		server.WriteError(w, http.StatusNotFound, "Order not found", requestID)
		return
	}
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to get order", requestID, err, map[string]interface{}{
			"order_number": number,
		})
		server.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, order, requestID)
}

// ListOrders handles GET /orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	sess, ok := h.session(w, r, requestID)
	if !ok {
		return
	}

	orders, err := h.service.List(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("db_query_failed", "Failed to list orders", requestID, err, nil)
		server.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if orders == nil {
		orders = []*models.PlacedOrder{}
	}

	h.writeJSON(w, orders, requestID)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request, requestID string) (*auth.Session, bool) {
	sess, err := h.sessions.GetSession(r.Context(), auth.BearerToken(r))
	if err != nil {
		server.WriteError(w, http.StatusUnauthorized, "Please login to continue", requestID)
		return nil, false
	}
	return sess, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}, requestID string) {
	if err := server.WriteJSON(w, http.StatusOK, v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}
