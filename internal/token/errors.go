package token

import "errors"

var (
	// ErrEmptySigningKey indicates the service was created without a key.
	ErrEmptySigningKey = errors.New("token: signing key is required")

	// ErrTokenGeneration indicates claims could not be serialized.
	ErrTokenGeneration = errors.New("token: failed to generate token")

	// ErrInvalidToken indicates the token is structurally malformed.
	ErrInvalidToken = errors.New("token: invalid token")

	// ErrInvalidSignature indicates signature verification failed.
	ErrInvalidSignature = errors.New("token: invalid signature")

	// ErrExpiredToken indicates the exp claim is in the past.
	ErrExpiredToken = errors.New("token: token has expired")

	// ErrTokenNotYetValid indicates the nbf claim is in the future.
	ErrTokenNotYetValid = errors.New("token: token not yet valid")

	// ErrUnexpectedSigningMethod indicates the alg header is not HS256.
	ErrUnexpectedSigningMethod = errors.New("token: unexpected signing method")
)
