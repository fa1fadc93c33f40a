// Package auth is the authentication collaborator. The cart only needs to
// know whether a session exists; everything else here serves the sign-in forms.
package auth

import (
	"context"
	"errors"
	"time"

	"restaurant-cart/internal/validation"
)

var (
	ErrNoSession          = errors.New("not signed in")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP expired, please request a new one")
)

// Session is an authenticated user session identified by an opaque token
type Session struct {
	Token     string    `json:"access_token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	FullName  string    `json:"full_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Event names an auth state transition
type Event string

const (
	EventSignedIn  Event = "SIGNED_IN"
	EventSignedOut Event = "SIGNED_OUT"
)

// StateChange is delivered to OnAuthStateChange listeners. Session is nil for
// EventSignedOut.
type StateChange struct {
	Event   Event
	Session *Session
}

// Listener observes auth state changes
type Listener func(StateChange)

// Provider is the contract the rest of the application consumes
type Provider interface {
	// GetSession returns ErrNoSession for an unknown or expired token
	GetSession(ctx context.Context, token string) (*Session, error)
	SignUp(ctx context.Context, req SignUpRequest) (*Session, error)
	SignInWithPassword(ctx context.Context, req PasswordRequest) (*Session, error)
	// SignInWithOTP sends a one-time code to the mobile number
	SignInWithOTP(ctx context.Context, req OTPRequest) error
	VerifyOTP(ctx context.Context, req VerifyRequest) (*Session, error)
	SignOut(ctx context.Context, token string) error
	// OnAuthStateChange registers l and returns a func that removes it
	OnAuthStateChange(l Listener) (unsubscribe func())
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (r SignUpRequest) Validate() error {
	var c validation.Collector
	c.Check(validation.Required("full_name", r.FullName))
	c.Check(validation.MaxLength("full_name", r.FullName, 100))
	c.Check(validation.Email("email", r.Email))
	c.Check(validation.Password("password", r.Password))
	return c.Err()
}

type PasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r PasswordRequest) Validate() error {
	var c validation.Collector
	c.Check(validation.Email("email", r.Email))
	c.Check(validation.Password("password", r.Password))
	return c.Err()
}

// OTPRequest starts a mobile sign-in. Mobile is the 10-digit national number.
type OTPRequest struct {
	FullName string `json:"full_name"`
	Mobile   string `json:"mobile"`
}

func (r OTPRequest) Validate() error {
	var c validation.Collector
	if len([]rune(r.FullName)) < 2 {
		c.Add("full_name", "name must be at least 2 characters")
	}
	c.Check(validation.IndianMobile("mobile", r.Mobile))
	return c.Err()
}

type VerifyRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

func (r VerifyRequest) validate(otpLength int) error {
	var c validation.Collector
	c.Check(validation.IndianMobile("mobile", r.Mobile))
	c.Check(validation.OTP("otp", r.OTP, otpLength))
	return c.Err()
}
