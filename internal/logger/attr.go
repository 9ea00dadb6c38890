package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety, so callers can
// write log.Info("msg", logger.Error(err)) without explicit nil checks.

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component tags the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event tags the lifecycle event being logged.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// RequestID tags the record with the request correlation ID.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Method creates an attribute for the HTTP method.
func Method(m string) slog.Attr {
	return slog.String("method", m)
}

// Path creates an attribute for the request path.
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// Status creates an attribute for the HTTP response status.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// RemoteAddr creates an attribute for the client address.
func RemoteAddr(addr string) slog.Attr {
	return slog.String("remote_addr", addr)
}

// UserEmail tags the record with the acting user's email.
func UserEmail(email string) slog.Attr {
	if email == "" {
		return slog.Attr{}
	}
	return slog.String("user_email", email)
}

// Date tags the record with a devotion date key.
func Date(date string) slog.Attr {
	return slog.String("date", date)
}
