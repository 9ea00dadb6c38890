// Package auth implements session authentication: an injected Verifier checks
// externally issued identity tokens, and the Authenticator exchanges them for
// HMAC-signed session credentials carried in a cookie. An email allow-list
// gates administrative operations.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quiethour/quiethour/internal/logger"
	"github.com/quiethour/quiethour/internal/token"
)

// DefaultSessionTTL is how long a minted session credential stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Config holds the authenticator environment settings.
type Config struct {
	SigningKey   string        `env:"SESSION_SIGNING_KEY,required"`
	SharedSecret string        `env:"AUTH_SHARED_SECRET,required"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	AdminEmails  []string      `env:"ADMIN_EMAILS" envSeparator:","`
}

// SessionClaims is the payload of a session credential.
type SessionClaims struct {
	token.StandardClaims

	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Session is the validated view of a session credential.
type Session struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Authenticator exchanges verified identities for session credentials and
// validates presented credentials. It holds no per-session server state;
// a credential is self-contained and expires on its own.
type Authenticator struct {
	verifier Verifier
	tokens   *token.Service
	ttl      time.Duration
	now      func() time.Time
	log      *slog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets the authenticator logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Authenticator) {
		if log != nil {
			a.log = log
		}
	}
}

// NewAuthenticator creates an Authenticator minting credentials signed with
// signingKey, verifying identities through verifier.
func NewAuthenticator(verifier Verifier, signingKey string, opts ...Option) (*Authenticator, error) {
	tokens, err := token.NewFromString(signingKey)
	if err != nil {
		return nil, err
	}
	a := &Authenticator{
		verifier: verifier,
		tokens:   tokens,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// CreateSession verifies the identity token and mints a session credential
// carrying the identity. An unverifiable token yields ErrInvalidIDToken.
func (a *Authenticator) CreateSession(ctx context.Context, idToken string) (string, Session, error) {
	identity, err := a.verifier.Verify(ctx, idToken)
	if err != nil {
		return "", Session{}, err
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := SessionClaims{
		StandardClaims: token.StandardClaims{
			ID:        uuid.NewString(),
			Subject:   identity.UID,
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
		Email:         identity.Email,
		EmailVerified: identity.EmailVerified,
	}

	credential, err := a.tokens.Generate(claims)
	if err != nil {
		return "", Session{}, err
	}

	a.log.InfoContext(ctx, "session created", logger.UserEmail(identity.Email))
	return credential, Session{
		UID:           identity.UID,
		Email:         identity.Email,
		EmailVerified: identity.EmailVerified,
		ExpiresAt:     expiresAt,
	}, nil
}

// ValidateSession verifies the credential signature and expiry and returns
// the session it carries. Any failure maps to ErrInvalidSession.
func (a *Authenticator) ValidateSession(credential string) (Session, error) {
	var claims SessionClaims
	if err := a.tokens.Parse(credential, &claims); err != nil {
		return Session{}, errors.Join(ErrInvalidSession, err)
	}
	if claims.Subject == "" {
		return Session{}, errors.Join(ErrInvalidSession, errors.New("missing subject"))
	}
	return Session{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		ExpiresAt:     time.Unix(claims.ExpiresAt, 0).UTC(),
	}, nil
}
