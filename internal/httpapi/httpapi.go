// Package httpapi assembles the HTTP surface: devotion reads and writes,
// session lifecycle, admin maintenance, and the AI completion proxies.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/quiethour/quiethour/internal/ai"
	"github.com/quiethour/quiethour/internal/auth"
	"github.com/quiethour/quiethour/internal/cookie"
	"github.com/quiethour/quiethour/internal/devotion"
	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/middleware"
	"github.com/quiethour/quiethour/internal/ratelimiter"
	"github.com/quiethour/quiethour/internal/response"
	"github.com/quiethour/quiethour/internal/router"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Log           *slog.Logger
	Repository    *devotion.Repository
	Authenticator *auth.Authenticator
	Allowlist     *auth.Allowlist
	Cookies       *cookie.Manager
	Composer      ai.Composer
	AILimiter     ratelimiter.RateLimiter

	// SecureCookies marks session cookies Secure; disable only for local
	// plain-http development.
	SecureCookies bool

	// Healthchecks maps component names to their probes for GET /health.
	Healthchecks map[string]func(context.Context) error
}

// NewRouter wires all routes and middleware into a ready http.Handler.
func NewRouter(deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := router.New[*router.Context](
		router.WithContextFactory(router.NewContext),
		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
		router.WithLogger[*router.Context](log),
	)

	r.Use(middleware.RequestID[*router.Context]())
	r.Use(middleware.ClientIP[*router.Context]())
	r.Use(middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
		Logger: log,
		Skip: func(ctx handler.Context) bool {
			return ctx.Request().URL.Path == "/health"
		},
	}))

	sessionGate := middleware.Session[*router.Context](middleware.SessionConfig{
		Cookies:       deps.Cookies,
		Authenticator: deps.Authenticator,
	})
	adminGate := middleware.AdminOnly[*router.Context](deps.Allowlist)

	devotions := &devotionHandlers{repo: deps.Repository}
	sessions := &sessionHandlers{
		authenticator: deps.Authenticator,
		cookies:       deps.Cookies,
		secure:        deps.SecureCookies,
	}
	admin := &adminHandlers{repo: deps.Repository, log: log}
	completions := &aiHandlers{composer: deps.Composer}

	r.Get("/health", healthHandler(deps.Healthchecks))

	r.Get("/devotions/available-dates", devotions.listDates)
	r.Get("/devotions/{date}", devotions.get)
	r.With(sessionGate).Post("/devotions/{date}", devotions.upsert)

	r.Post("/auth/session", sessions.create)
	r.Get("/auth/verify-session", sessions.verify)
	r.Delete("/auth/session", sessions.destroy)

	r.Group(func(r router.Router[*router.Context]) {
		r.Use(sessionGate, adminGate)
		r.Post("/admin/devotions/repair", admin.repair)
		r.Delete("/admin/devotions/{date}", admin.remove)
	})

	r.Group(func(r router.Router[*router.Context]) {
		r.Use(sessionGate)
		if deps.AILimiter != nil {
			r.Use(middleware.RateLimit[*router.Context](middleware.RateLimitConfig{
				Limiter:    deps.AILimiter,
				SetHeaders: true,
			}))
		}
		r.Post("/ai/reflection", completions.reflection)
		r.Post("/ai/prayer", completions.prayer)
	})

	return r
}
