package devotion

import "errors"

var (
	// ErrNotFound is returned when no record exists for the requested date.
	// Distinct from a malformed-but-present record, which still normalizes.
	ErrNotFound = errors.New("devotion not found")

	// ErrInvalidDate is returned when a date key is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid devotion date, expected YYYY-MM-DD")

	// ErrStorageUnavailable is returned on store connectivity failures, so
	// callers can retry with backoff instead of treating it as missing data.
	ErrStorageUnavailable = errors.New("devotion storage unavailable")
)
