package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/ratelimiter"
	"github.com/quiethour/quiethour/internal/response"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Limiter is the rate limiting implementation to use
	Limiter ratelimiter.RateLimiter
	// KeyExtractor defines how to extract the rate limiting key from requests (default: client IP)
	KeyExtractor func(ctx handler.Context) string
	// SetHeaders determines whether to include rate limit information in response headers
	SetHeaders bool
}

// RateLimit creates a rate limiting middleware with the provided
// configuration. Requests over the limit get a 429 with retry guidance.
// Panics if no limiter is provided.
func RateLimit[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(ctx handler.Context) string {
			if ip, ok := GetClientIP(ctx); ok {
				return ip
			}
			return ctx.Request().RemoteAddr
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			result, err := cfg.Limiter.Allow(ctx, cfg.KeyExtractor(ctx))
			if err != nil {
				return response.Error(response.ErrInternalServerError.WithError(err))
			}

			var resp handler.Response
			if result.Allowed() {
				resp = next(ctx)
			} else {
				httpErr := response.ErrTooManyRequests
				if retry := result.RetryAfter(); retry > 0 {
					httpErr = httpErr.WithDetails(map[string]any{
						"retry_after": fmt.Sprintf("%.0f", retry.Seconds()),
					})
				}
				resp = response.Error(httpErr)
			}

			if cfg.SetHeaders {
				return wrapWithRateLimitHeaders(resp, result)
			}
			return resp
		}
	}
}

// wrapWithRateLimitHeaders adds the standard X-RateLimit-* headers, plus
// Retry-After when the request was blocked.
func wrapWithRateLimitHeaders(resp handler.Response, result *ratelimiter.Result) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed() && result.RetryAfter() > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter().Seconds())))
		}

		return resp(w, r)
	}
}
