package binder

import "errors"

var (
	// ErrUnsupportedMediaType indicates the Content-Type header specifies a
	// media type the binder doesn't support.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseJSON indicates the request body contains invalid JSON
	// or doesn't match the target struct schema.
	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")

	// ErrMissingContentType indicates the request lacks a Content-Type header.
	ErrMissingContentType = errors.New("missing content type")
)
