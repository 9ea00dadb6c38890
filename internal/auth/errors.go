package auth

import "errors"

var (
	// ErrInvalidIDToken is returned when the presented identity token fails
	// verification.
	ErrInvalidIDToken = errors.New("invalid identity token")
	// ErrInvalidSession is returned when a session credential fails signature
	// or temporal validation.
	ErrInvalidSession = errors.New("invalid session")
	// ErrForbidden is returned when an authenticated user is not on the admin
	// allow-list.
	ErrForbidden = errors.New("forbidden")
)
