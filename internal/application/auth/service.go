package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/infrastructure/google"
	"github.com/addisnest/api/internal/pkg/id"
	pkgtoken "github.com/addisnest/api/internal/pkg/token"
	"github.com/addisnest/api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

const otpDigits = 6

type RequestOTPRequest struct {
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone" validate:"omitempty,e164"`
}

type RequestOTPResult struct {
	ExpiresAt time.Time
	// OTP is only populated when the service runs with ExposeOTP.
	OTP string
}

type VerifyOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required"`
	Provider string `json:"provider" validate:"omitempty,oneof=google facebook apple"`
	IDToken  string `json:"id_token"`
}

type Service interface {
	RequestOTP(ctx context.Context, req RequestOTPRequest) (*RequestOTPResult, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*domain.Session, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// OTPStore holds at most one live entry per email. Update must run fn and
// apply its action as one atomic unit for that email.
type OTPStore interface {
	Put(ctx context.Context, e *domain.OTPEntry) error
	Update(ctx context.Context, email string, fn domain.OTPUpdateFunc) error
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	MarkEmailVerified(ctx context.Context, userID, provider string) error
}

type TokenSigner interface {
	Sign(userID, email, role, provider string) (string, time.Time, error)
}

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*google.Identity, error)
}

// ServiceDeps groups the collaborators of the auth service. Mailer,
// SMSSender and Verifiers are optional.
type ServiceDeps struct {
	OTPStore    OTPStore
	UserRepo    UserStore
	Tokens      TokenSigner
	Mailer      Mailer
	SMSSender   SMSSender
	Verifiers   map[string]IdentityVerifier
	OTPTTL      time.Duration
	MaxAttempts int
	// ExposeOTP returns codes to the caller and tolerates delivery failures.
	// Never set in production.
	ExposeOTP bool
	Now       func() time.Time
}

type service struct {
	otps        OTPStore
	users       UserStore
	tokens      TokenSigner
	mailer      Mailer
	sms         SMSSender
	verifiers   map[string]IdentityVerifier
	ttl         time.Duration
	maxAttempts int
	exposeOTP   bool
	now         func() time.Time
}

func NewService(d ServiceDeps) Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		otps:        d.OTPStore,
		users:       d.UserRepo,
		tokens:      d.Tokens,
		mailer:      d.Mailer,
		sms:         d.SMSSender,
		verifiers:   d.Verifiers,
		ttl:         d.OTPTTL,
		maxAttempts: d.MaxAttempts,
		exposeOTP:   d.ExposeOTP,
		now:         now,
	}
}

func (s *service) RequestOTP(ctx context.Context, req RequestOTPRequest) (*RequestOTPResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	code, err := pkgtoken.NumericCode(otpDigits)
	if err != nil {
		return nil, err
	}
	e := &domain.OTPEntry{
		Email:             req.Email,
		Code:              code,
		ExpiresAt:         s.now().Add(s.ttl),
		AttemptsRemaining: s.maxAttempts,
	}
	// Last write wins: a newer request replaces the previous code outright.
	if err := s.otps.Put(ctx, e); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	if err := s.deliver(ctx, req, code); err != nil {
		if !s.exposeOTP {
			return nil, fmt.Errorf("deliver otp: %w", err)
		}
		slog.Warn("otp delivery failed", "email", req.Email, "err", err)
	}

	res := &RequestOTPResult{ExpiresAt: e.ExpiresAt}
	if s.exposeOTP {
		res.OTP = code
	}
	return res, nil
}

func (s *service) deliver(ctx context.Context, req RequestOTPRequest, code string) error {
	msg := fmt.Sprintf("Your Addisnest verification code is %s. It expires in %d minutes.", code, int(s.ttl.Minutes()))
	if req.Phone != nil && s.sms != nil {
		return s.sms.SendSMS(ctx, *req.Phone, msg)
	}
	if s.mailer != nil {
		return s.mailer.SendEmail(ctx, req.Email, "Your Addisnest verification code", msg)
	}
	return errors.New("no delivery channel configured")
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*domain.Session, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	provider := domain.ProviderOTP
	var ident *google.Identity
	if req.Provider != "" {
		provider = req.Provider
		var err error
		if ident, err = s.verifyIdentity(ctx, req); err != nil {
			return nil, err
		}
	}

	if err := s.consumeOTP(ctx, req.Email, req.OTP); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		u = newOTPUser(req.Email, provider, ident, s.now())
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		if err := s.users.MarkEmailVerified(ctx, u.UserID, provider); err != nil {
			return nil, err
		}
		u.EmailVerified = true
		u.AuthProvider = provider
	}
	return s.issue(u, provider)
}

// consumeOTP runs the verify state machine for email against the store.
func (s *service) consumeOTP(ctx context.Context, email, code string) error {
	now := s.now()
	return s.otps.Update(ctx, email, func(e *domain.OTPEntry) (domain.OTPAction, error) {
		switch {
		case e == nil:
			return domain.OTPKeep, domain.ErrOTPNotPending
		case e.Expired(now):
			return domain.OTPDelete, domain.ErrOTPExpired
		case e.AttemptsRemaining <= 0:
			return domain.OTPKeep, domain.ErrOTPExhausted
		case subtle.ConstantTimeCompare([]byte(e.Code), []byte(code)) != 1:
			e.AttemptsRemaining--
			return domain.OTPSave, domain.ErrOTPIncorrect
		}
		return domain.OTPDelete, nil
	})
}

// verifyIdentity checks the provider token when a verifier is registered for
// the provider. Providers without one are accepted on the OTP alone.
func (s *service) verifyIdentity(ctx context.Context, req VerifyOTPRequest) (*google.Identity, error) {
	v, ok := s.verifiers[req.Provider]
	if !ok {
		return nil, nil
	}
	if req.IDToken == "" {
		return nil, fmt.Errorf("id_token required for %s login: %w", req.Provider, domain.ErrBadRequest)
	}
	ident, err := v.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}
	if normalizeEmail(ident.Email) != req.Email {
		return nil, fmt.Errorf("%s account email does not match: %w", req.Provider, domain.ErrUnauthorized)
	}
	return ident, nil
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AuthProvider: domain.ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.issue(u, domain.ProviderLocal)
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, fmt.Errorf("account has no password, sign in with a code: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	return s.issue(u, domain.ProviderLocal)
}

func (s *service) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) issue(u *domain.User, provider string) (*domain.Session, error) {
	tok, exp, err := s.tokens.Sign(u.UserID, u.Email, u.Role, provider)
	if err != nil {
		return nil, err
	}
	return &domain.Session{Token: tok, ExpiresAt: exp, User: u}, nil
}

func newOTPUser(email, provider string, ident *google.Identity, now time.Time) *domain.User {
	now = now.UTC()
	u := &domain.User{
		UserID:        id.New(),
		Email:         email,
		Role:          domain.RoleUser,
		AuthProvider:  provider,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if ident != nil {
		u.FirstName = ident.FirstName
		u.LastName = ident.LastName
	}
	return u
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
