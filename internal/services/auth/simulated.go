package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"restaurant-cart/internal/logger"
)

const maxOTPAttempts = 5

// OTPSender delivers a one-time code to a phone number
type OTPSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of sending an SMS
type LogSender struct {
	Logger *logger.Logger
}

func (s LogSender) SendOTP(_ context.Context, phone, code string) error {
	s.Logger.Info("otp_sent", "One-time code issued", "", map[string]interface{}{
		"phone": phone,
		"code":  code,
	})
	return nil
}

// Options configures a Simulated provider. Zero values get defaults.
type Options struct {
	CountryCode string
	OTPLength   int
	OTPTTL      time.Duration
	SessionTTL  time.Duration
	BcryptCost  int
	Sender      OTPSender
	Now         func() time.Time
}

type user struct {
	id           string
	email        string
	phone        string
	fullName     string
	passwordHash []byte
}

type pendingOTP struct {
	code      string
	fullName  string
	expiresAt time.Time
	attempts  int
}

// Simulated is an in-memory Provider: accounts and sessions live only as
// long as the process
type Simulated struct {
	opts   Options
	logger *logger.Logger

	mu        sync.Mutex
	byEmail   map[string]*user
	byPhone   map[string]*user
	sessions  map[string]*Session
	pending   map[string]*pendingOTP
	listeners map[int]Listener
	nextID    int
}

var _ Provider = (*Simulated)(nil)

// NewSimulated creates an empty provider
func NewSimulated(opts Options, log *logger.Logger) *Simulated {
	if opts.CountryCode == "" {
		opts.CountryCode = "+91"
	}
	if opts.OTPLength == 0 {
		opts.OTPLength = 6
	}
	if opts.OTPTTL == 0 {
		opts.OTPTTL = 5 * time.Minute
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Sender == nil {
		opts.Sender = LogSender{Logger: log}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Simulated{
		opts:      opts,
		logger:    log,
		byEmail:   make(map[string]*user),
		byPhone:   make(map[string]*user),
		sessions:  make(map[string]*Session),
		pending:   make(map[string]*pendingOTP),
		listeners: make(map[int]Listener),
	}
}

func (s *Simulated) GetSession(_ context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	if !s.opts.Now().Before(sess.ExpiresAt) {
		delete(s.sessions, token)
		return nil, ErrNoSession
	}
	out := *sess
	return &out, nil
}

func (s *Simulated) SignUp(_ context.Context, req SignUpRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	email := strings.ToLower(req.Email)

	s.mu.Lock()
	if _, exists := s.byEmail[email]; exists {
		s.mu.Unlock()
		return nil, ErrUserExists
	}
	u := &user{
		id:           uuid.NewString(),
		email:        email,
		fullName:     strings.TrimSpace(req.FullName),
		passwordHash: hash,
	}
	s.byEmail[email] = u
	sess := s.newSessionLocked(u)
	s.mu.Unlock()

	s.logger.Info("user_signed_up", "Account created", "", map[string]interface{}{
		"user_id": u.id,
	})
	s.emit(StateChange{Event: EventSignedIn, Session: sess})
	return sess, nil
}

func (s *Simulated) SignInWithPassword(_ context.Context, req PasswordRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	u, ok := s.byEmail[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok || u.passwordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.mu.Lock()
	sess := s.newSessionLocked(u)
	s.mu.Unlock()

	s.emit(StateChange{Event: EventSignedIn, Session: sess})
	return sess, nil
}

func (s *Simulated) SignInWithOTP(ctx context.Context, req OTPRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	code, err := randomDigits(s.opts.OTPLength)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	phone := s.opts.CountryCode + req.Mobile

	s.mu.Lock()
	s.pending[phone] = &pendingOTP{
		code:      code,
		fullName:  strings.TrimSpace(req.FullName),
		expiresAt: s.opts.Now().Add(s.opts.OTPTTL),
	}
	s.mu.Unlock()

	if err := s.opts.Sender.SendOTP(ctx, phone, code); err != nil {
		s.mu.Lock()
		delete(s.pending, phone)
		s.mu.Unlock()
		return fmt.Errorf("failed to send OTP: %w", err)
	}
	return nil
}

func (s *Simulated) VerifyOTP(_ context.Context, req VerifyRequest) (*Session, error) {
	if err := req.validate(s.opts.OTPLength); err != nil {
		return nil, err
	}
	phone := s.opts.CountryCode + req.Mobile

	s.mu.Lock()
	p, ok := s.pending[phone]
	if !ok {
		s.mu.Unlock()
		return nil, ErrInvalidOTP
	}
	if !s.opts.Now().Before(p.expiresAt) {
		delete(s.pending, phone)
		s.mu.Unlock()
		return nil, ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(p.code), []byte(req.OTP)) != 1 {
		p.attempts++
		if p.attempts >= maxOTPAttempts {
			delete(s.pending, phone)
		}
		s.mu.Unlock()
		return nil, ErrInvalidOTP
	}
	delete(s.pending, phone)

	u, ok := s.byPhone[phone]
	if !ok {
		u = &user{id: uuid.NewString(), phone: phone, fullName: p.fullName}
		s.byPhone[phone] = u
	}
	sess := s.newSessionLocked(u)
	s.mu.Unlock()

	s.emit(StateChange{Event: EventSignedIn, Session: sess})
	return sess, nil
}

func (s *Simulated) SignOut(_ context.Context, token string) error {
	s.mu.Lock()
	_, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if !ok {
		return ErrNoSession
	}
	s.emit(StateChange{Event: EventSignedOut})
	return nil
}

func (s *Simulated) OnAuthStateChange(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Simulated) newSessionLocked(u *user) *Session {
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    u.id,
		Email:     u.email,
		Phone:     u.phone,
		FullName:  u.fullName,
		ExpiresAt: s.opts.Now().Add(s.opts.SessionTTL),
	}
	s.sessions[sess.Token] = sess

	out := *sess
	return &out
}

// emit calls listeners outside the lock so they may call back into the provider
func (s *Simulated) emit(change StateChange) {
	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(change)
	}
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
