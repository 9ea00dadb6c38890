package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/quiethour/quiethour/internal/handler"
)

var (
	// ErrNotFound is returned when no route matches the request path.
	ErrNotFound = routeError{status: http.StatusNotFound, msg: "route not found"}

	// ErrMethodNotAllowed is returned when a route matches the path but not the method.
	ErrMethodNotAllowed = routeError{status: http.StatusMethodNotAllowed, msg: "method not allowed"}

	// ErrNilResponse is returned when a handler returns a nil response.
	ErrNilResponse = errors.New("router: handler returned nil response")

	// ErrNoContextFactory is raised when a router is built without a context factory.
	ErrNoContextFactory = errors.New("router: context factory is required")
)

// routeError carries an HTTP status so error handlers can map it directly.
type routeError struct {
	status int
	msg    string
}

func (e routeError) Error() string   { return e.msg }
func (e routeError) StatusCode() int { return e.status }

// panicError wraps a recovered panic value with its stack trace.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// defaultErrorHandler writes a plain text error response.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	status := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	http.Error(ctx.ResponseWriter(), err.Error(), status)
}
