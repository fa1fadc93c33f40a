package auth

import (
	"errors"
	"net/http"
	"strings"

	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/server"
	"restaurant-cart/internal/validation"
)

// Handler exposes the provider over HTTP
type Handler struct {
	provider Provider
	logger   *logger.Logger
}

// NewHandler creates a new auth handler
func NewHandler(provider Provider, log *logger.Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   log,
	}
}

// RegisterRoutes adds the /auth routes to mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/signup", h.SignUp)
	mux.HandleFunc("POST /auth/login", h.SignInWithPassword)
	mux.HandleFunc("POST /auth/otp", h.SignInWithOTP)
	mux.HandleFunc("POST /auth/verify", h.VerifyOTP)
	mux.HandleFunc("POST /auth/logout", h.SignOut)
	mux.HandleFunc("GET /auth/session", h.GetSession)
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	var req SignUpRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	sess, err := h.provider.SignUp(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, err, "signup_failed", requestID)
		return
	}
	h.writeJSON(w, http.StatusCreated, sess, requestID)
}

func (h *Handler) SignInWithPassword(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	var req PasswordRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	sess, err := h.provider.SignInWithPassword(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, err, "login_failed", requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, sess, requestID)
}

func (h *Handler) SignInWithOTP(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	var req OTPRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	if err := h.provider.SignInWithOTP(r.Context(), req); err != nil {
		h.writeAuthError(w, err, "otp_send_failed", requestID)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "OTP sent to your mobile number!",
	}, requestID)
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	var req VerifyRequest
	if err := server.DecodeJSON(r, &req); err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	sess, err := h.provider.VerifyOTP(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, err, "otp_verify_failed", requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, sess, requestID)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	if err := h.provider.SignOut(r.Context(), BearerToken(r)); err != nil {
		h.writeAuthError(w, err, "logout_failed", requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	requestID := server.RequestID(r.Context())

	sess, err := h.provider.GetSession(r.Context(), BearerToken(r))
	if err != nil {
		h.writeAuthError(w, err, "session_lookup_failed", requestID)
		return
	}
	h.writeJSON(w, http.StatusOK, sess, requestID)
}

func (h *Handler) writeAuthError(w http.ResponseWriter, err error, action, requestID string) {
	var verrs validation.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		server.WriteErrorFields(w, http.StatusBadRequest, verrs[0].Message, requestID, verrs.Fields())
	case errors.Is(err, ErrNoSession), errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidOTP), errors.Is(err, ErrOTPExpired):
		server.WriteError(w, http.StatusUnauthorized, err.Error(), requestID)
	case errors.Is(err, ErrUserExists):
		server.WriteError(w, http.StatusConflict, err.Error(), requestID)
	default:
		h.logger.Error(action, "Auth provider failed", requestID, err, nil)
		server.WriteError(w, http.StatusBadGateway, "Authentication service unavailable, please try again", requestID)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}, requestID string) {
	if err := server.WriteJSON(w, status, v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}
