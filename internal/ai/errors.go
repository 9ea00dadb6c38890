package ai

import "errors"

var (
	// ErrInvalidAPIKey indicates an invalid or missing API key.
	ErrInvalidAPIKey = errors.New("invalid or missing API key")

	// ErrProviderNotSupported indicates an unknown provider name in config.
	ErrProviderNotSupported = errors.New("provider not supported")

	// ErrUpstreamUnavailable indicates the completion API call failed.
	ErrUpstreamUnavailable = errors.New("completion provider unavailable")

	// ErrEmptyCompletion indicates the API returned no usable text.
	ErrEmptyCompletion = errors.New("empty completion returned")
)
