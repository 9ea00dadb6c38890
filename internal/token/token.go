// Package token implements RFC 7519 JSON Web Tokens signed with HMAC-SHA256.
// It is used both for the session credential minted by the authenticator and
// for verifying identity tokens issued with a shared secret.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StandardClaims contains the registered JWT claims.
// Embed it in a custom struct to add application claims.
type StandardClaims struct {
	ID        string `json:"jti,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// Service generates and parses HMAC-SHA256 signed tokens.
type Service struct {
	signingKey []byte
}

// New creates a token service with the given signing key.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrEmptySigningKey
	}
	return &Service{signingKey: signingKey}, nil
}

// NewFromString creates a token service from a string signing key.
func NewFromString(signingKey string) (*Service, error) {
	return New([]byte(signingKey))
}

// Generate creates a signed token from the given claims.
// Claims may be any JSON-serializable value, typically a struct
// embedding StandardClaims.
func (s *Service) Generate(claims any) (string, error) {
	headerJSON, err := json.Marshal(header{Alg: "HS256", Typ: "JWT"})
	if err != nil {
		return "", fmt.Errorf("%w: marshal header: %v", ErrTokenGeneration, err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("%w: marshal claims: %v", ErrTokenGeneration, err)
	}

	signingInput := encodeSegment(headerJSON) + "." + encodeSegment(claimsJSON)
	return signingInput + "." + s.sign(signingInput), nil
}

// Parse verifies the token signature and temporal claims, then unmarshals the
// payload into claims. Signature verification uses constant-time comparison.
func (s *Service) Parse(tokenStr string, claims any) error {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	headerJSON, err := decodeSegment(parts[0])
	if err != nil {
		return ErrInvalidToken
	}

	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return ErrInvalidToken
	}
	if h.Alg != "HS256" {
		return fmt.Errorf("%w: %s", ErrUnexpectedSigningMethod, h.Alg)
	}

	signingInput := parts[0] + "." + parts[1]
	expected := s.sign(signingInput)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(parts[2])) != 1 {
		return ErrInvalidSignature
	}

	claimsJSON, err := decodeSegment(parts[1])
	if err != nil {
		return ErrInvalidToken
	}

	// Temporal validation works off the registered claims regardless of the
	// caller's claim type.
	var std StandardClaims
	if err := json.Unmarshal(claimsJSON, &std); err != nil {
		return ErrInvalidToken
	}

	now := time.Now().Unix()
	if std.ExpiresAt != 0 && now >= std.ExpiresAt {
		return ErrExpiredToken
	}
	if std.NotBefore != 0 && now < std.NotBefore {
		return ErrTokenNotYetValid
	}

	if claims != nil {
		if err := json.Unmarshal(claimsJSON, claims); err != nil {
			return ErrInvalidToken
		}
	}

	return nil
}

func (s *Service) sign(input string) string {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
