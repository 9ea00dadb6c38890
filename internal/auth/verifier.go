package auth

import (
	"context"
	"errors"

	"github.com/quiethour/quiethour/internal/token"
)

// Identity is a verified external identity.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Verifier checks an externally issued identity token and extracts the
// identity it asserts. Production wiring uses TokenVerifier; development
// environments inject StaticVerifier instead. The authenticator itself has no
// environment awareness.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// identityClaims is the payload shape of an identity token.
type identityClaims struct {
	token.StandardClaims

	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// TokenVerifier verifies identity tokens signed with a shared secret.
type TokenVerifier struct {
	tokens *token.Service
}

// NewTokenVerifier creates a TokenVerifier over the given shared secret.
func NewTokenVerifier(sharedSecret string) (*TokenVerifier, error) {
	svc, err := token.NewFromString(sharedSecret)
	if err != nil {
		return nil, err
	}
	return &TokenVerifier{tokens: svc}, nil
}

// Verify checks the token signature and expiry and returns the asserted
// identity. Any verification failure maps to ErrInvalidIDToken.
func (v *TokenVerifier) Verify(_ context.Context, idToken string) (Identity, error) {
	var claims identityClaims
	if err := v.tokens.Parse(idToken, &claims); err != nil {
		return Identity{}, errors.Join(ErrInvalidIDToken, err)
	}
	if claims.Subject == "" {
		return Identity{}, errors.Join(ErrInvalidIDToken, errors.New("missing subject"))
	}
	return Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}

// StaticVerifier resolves tokens from a fixed table. It exists for local
// development and tests; never wire it in production.
type StaticVerifier struct {
	identities map[string]Identity
}

// NewStaticVerifier creates a StaticVerifier from token→identity pairs.
func NewStaticVerifier(identities map[string]Identity) *StaticVerifier {
	table := make(map[string]Identity, len(identities))
	for tok, id := range identities {
		table[tok] = id
	}
	return &StaticVerifier{identities: table}
}

// Verify looks the token up in the static table.
func (v *StaticVerifier) Verify(_ context.Context, idToken string) (Identity, error) {
	id, ok := v.identities[idToken]
	if !ok {
		return Identity{}, ErrInvalidIDToken
	}
	return id, nil
}
