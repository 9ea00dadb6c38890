package middleware

import (
	"github.com/quiethour/quiethour/internal/auth"
	"github.com/quiethour/quiethour/internal/cookie"
	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/response"
)

// SessionCookieName is the cookie carrying the session credential.
const SessionCookieName = "qh_session"

// sessionContextKey is used as a key for storing the session in request context.
type sessionContextKey struct{}

// SessionConfig configures the session authentication gate.
type SessionConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Cookies reads the signed session cookie
	Cookies *cookie.Manager
	// Authenticator validates session credentials
	Authenticator *auth.Authenticator
	// CookieName overrides the session cookie name
	CookieName string
}

// Session creates the authentication gate: it reads the signed session
// cookie, validates the credential, and stores the session in the request
// context. Requests without a valid session get a 401.
func Session[C handler.Context](cfg SessionConfig) handler.Middleware[C] {
	if cfg.Cookies == nil || cfg.Authenticator == nil {
		panic("session middleware: cookie manager and authenticator are required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = SessionCookieName
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			credential, err := cfg.Cookies.GetSigned(ctx.Request(), cfg.CookieName)
			if err != nil {
				return response.Error(response.ErrUnauthorized)
			}

			session, err := cfg.Authenticator.ValidateSession(credential)
			if err != nil {
				return response.Error(response.ErrUnauthorized.WithError(err))
			}

			ctx.SetValue(sessionContextKey{}, session)
			return next(ctx)
		}
	}
}

// GetSession retrieves the authenticated session from the request context.
func GetSession(ctx handler.Context) (auth.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(auth.Session)
	return session, ok
}

// AdminOnly creates the allow-list gate for destructive operations. It must
// run after Session; an authenticated user not on the list gets a 403.
func AdminOnly[C handler.Context](allowlist *auth.Allowlist) handler.Middleware[C] {
	if allowlist == nil {
		panic("admin middleware: allowlist is required")
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			session, ok := GetSession(ctx)
			if !ok {
				return response.Error(response.ErrUnauthorized)
			}
			if !allowlist.Allows(session.Email) {
				return response.Error(response.ErrForbidden.WithError(auth.ErrForbidden))
			}
			return next(ctx)
		}
	}
}
