package router

import (
	"log/slog"
	"net/http"

	"github.com/quiethour/quiethour/internal/handler"
)

// Option configures a router at construction time.
type Option[C handler.Context] func(*mux[C])

// WithContextFactory sets the factory producing the custom request context.
// Required: the router panics without one.
func WithContextFactory[C handler.Context](factory func(http.ResponseWriter, *http.Request, map[string]string) C) Option[C] {
	return func(m *mux[C]) {
		m.newContext = factory
	}
}

// WithErrorHandler sets the handler invoked for routing errors, handler
// errors, and recovered panics.
func WithErrorHandler[C handler.Context](eh handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if eh != nil {
			m.errorHandler = eh
		}
	}
}

// WithLogger sets the logger used for panics that occur after the response
// has been written.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if logger != nil {
			m.logger = logger
		}
	}
}
