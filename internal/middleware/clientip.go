package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/quiethour/quiethour/internal/handler"
)

// clientIPContextKey is used as a key for storing client IP in request context.
type clientIPContextKey struct{}

// ClientIP creates a middleware that extracts the real client IP from proxy
// headers and stores it in the request context for downstream consumers,
// notably rate limiting and request logging.
func ClientIP[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			ctx.SetValue(clientIPContextKey{}, extractIP(ctx.Request()))
			return next(ctx)
		}
	}
}

// GetClientIP retrieves the client IP address from the request context.
func GetClientIP(ctx handler.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok
}

// extractIP resolves the client IP: first X-Forwarded-For entry, then
// X-Real-IP, then the connection's remote address.
func extractIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
