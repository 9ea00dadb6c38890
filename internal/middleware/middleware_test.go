package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiethour/quiethour/internal/auth"
	"github.com/quiethour/quiethour/internal/cookie"
	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/middleware"
	"github.com/quiethour/quiethour/internal/ratelimiter"
	"github.com/quiethour/quiethour/internal/response"
	"github.com/quiethour/quiethour/internal/router"
)

func newRouter() router.Router[*router.Context] {
	return router.New[*router.Context](
		router.WithContextFactory(router.NewContext),
		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
	)
}

func okHandler(ctx *router.Context) handler.Response {
	return response.Status(http.StatusOK)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates uuid", func(t *testing.T) {
		t.Parallel()

		r := newRouter()
		r.Use(middleware.RequestID[*router.Context]())

		var capturedID string
		r.Get("/test", func(ctx *router.Context) handler.Response {
			id, ok := middleware.GetRequestID(ctx)
			assert.True(t, ok)
			capturedID = id
			return response.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, capturedID)
		assert.Equal(t, capturedID, w.Header().Get("X-Request-ID"))
		assert.Len(t, capturedID, 36)
	})

	t.Run("reuses incoming id when configured", func(t *testing.T) {
		t.Parallel()

		r := newRouter()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			UseExisting: true,
		}))
		r.Get("/test", okHandler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "upstream-id")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))
	})
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		setup  func(req *http.Request)
		expect string
	}{
		{
			name:   "x-forwarded-for first entry",
			setup:  func(req *http.Request) { req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1") },
			expect: "203.0.113.9",
		},
		{
			name:   "x-real-ip fallback",
			setup:  func(req *http.Request) { req.Header.Set("X-Real-IP", "203.0.113.10") },
			expect: "203.0.113.10",
		},
		{
			name:   "remote addr fallback",
			setup:  func(req *http.Request) {},
			expect: "192.0.2.1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := newRouter()
			r.Use(middleware.ClientIP[*router.Context]())

			var captured string
			r.Get("/test", func(ctx *router.Context) handler.Response {
				ip, ok := middleware.GetClientIP(ctx)
				assert.True(t, ok)
				captured = ip
				return response.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			tc.setup(req)
			r.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tc.expect, captured)
		})
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Capacity:       2,
		RefillRate:     1,
		RefillInterval: time.Minute,
	})
	require.NoError(t, err)

	r := newRouter()
	r.Use(middleware.ClientIP[*router.Context]())
	r.Use(middleware.RateLimit[*router.Context](middleware.RateLimitConfig{
		Limiter:    limiter,
		SetHeaders: true,
	}))
	r.Get("/test", okHandler)

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	_ = get()
	w = get()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestSession(t *testing.T) {
	t.Parallel()

	cookies, err := cookie.New([]string{"session-cookie-secret-32-chars!!!"})
	require.NoError(t, err)

	verifier := auth.NewStaticVerifier(map[string]auth.Identity{
		"good-token": {UID: "user-1", Email: "admin@example.com", EmailVerified: true},
	})
	authenticator, err := auth.NewAuthenticator(verifier, "session-signing-key")
	require.NoError(t, err)

	buildRouter := func() router.Router[*router.Context] {
		r := newRouter()
		r.Use(middleware.Session[*router.Context](middleware.SessionConfig{
			Cookies:       cookies,
			Authenticator: authenticator,
		}))
		r.Get("/me", func(ctx *router.Context) handler.Response {
			session, ok := middleware.GetSession(ctx)
			require.True(t, ok)
			return response.JSON(map[string]string{"email": session.Email})
		})
		r.With(middleware.AdminOnly[*router.Context](auth.NewAllowlist("admin@example.com"))).
			Get("/admin", okHandler)
		return r
	}

	sessionCookie := func(t *testing.T) *http.Cookie {
		t.Helper()
		credential, _, err := authenticator.CreateSession(t.Context(), "good-token")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, cookies.SetSigned(w, middleware.SessionCookieName, credential))
		res := w.Result()
		defer res.Body.Close()
		require.NotEmpty(t, res.Cookies())
		return res.Cookies()[0]
	}

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		buildRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "forged|sig"})
		w := httptest.NewRecorder()
		buildRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(sessionCookie(t))
		w := httptest.NewRecorder()
		buildRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin@example.com")
	})

	t.Run("admin allowed", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(sessionCookie(t))
		w := httptest.NewRecorder()
		buildRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		t.Parallel()

		r := newRouter()
		r.Use(middleware.Session[*router.Context](middleware.SessionConfig{
			Cookies:       cookies,
			Authenticator: authenticator,
		}))
		r.With(middleware.AdminOnly[*router.Context](auth.NewAllowlist("other@example.com"))).
			Get("/admin", okHandler)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(sessionCookie(t))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
