package contact

import (
	"errors"
	"net/http"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/server"
	"restaurant-cart/internal/validation"
)

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /contact", h.Submit)
}

// Submit handles POST /contact
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	var req Request
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	_, err := h.service.Submit(r.Context(), req, requestID)
	var verrs validation.ValidationErrors
	switch {
	case err == nil:
		_ = server.WriteJSON(w, http.StatusAccepted, map[string]string{
			"message":     "Message sent successfully!",
			"description": "We'll get back to you within 24 hours.",
		})
	case errors.As(err, &verrs):
		server.WriteErrorFields(w, http.StatusBadRequest, verrs[0].Message, requestID, verrs.Fields())
	default:
		h.logger.Error("contact_send_failed", "Failed to forward contact message", requestID, err, nil)
		server.WriteError(w, http.StatusBadGateway, "Message could not be sent, please try again", requestID)
	}
}
