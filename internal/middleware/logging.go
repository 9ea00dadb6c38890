package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/logger"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger
	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration
}

// Logging creates a request logging middleware with the given logger.
func Logging[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a request logging middleware with custom
// configuration. One line is logged per request after the response renders,
// carrying method, path, status, duration, and correlation attributes.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
				err := resp(rec, r)
				elapsed := time.Since(start)

				attrs := []slog.Attr{
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Status(rec.status),
					logger.Duration(elapsed),
				}
				if id, ok := GetRequestID(ctx); ok {
					attrs = append(attrs, logger.RequestID(id))
				}
				if ip, ok := GetClientIP(ctx); ok {
					attrs = append(attrs, logger.RemoteAddr(ip))
				}
				if err != nil {
					attrs = append(attrs, logger.Error(err))
				}

				level := slog.LevelInfo
				switch {
				case err != nil || rec.status >= http.StatusInternalServerError:
					level = slog.LevelError
				case elapsed > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
				}

				cfg.Logger.LogAttrs(r.Context(), level, "request", attrs...)
				return err
			}
		}
	}
}

// statusRecorder captures the written status code for the log line.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
