package httpapi

import (
	"net/http"
	"time"

	"github.com/quiethour/quiethour/internal/auth"
	"github.com/quiethour/quiethour/internal/binder"
	"github.com/quiethour/quiethour/internal/cookie"
	"github.com/quiethour/quiethour/internal/handler"
	"github.com/quiethour/quiethour/internal/middleware"
	"github.com/quiethour/quiethour/internal/response"
	"github.com/quiethour/quiethour/internal/router"
)

type sessionHandlers struct {
	authenticator *auth.Authenticator
	cookies       *cookie.Manager
	secure        bool
}

type createSessionRequest struct {
	IDToken string `json:"idToken"`
}

// create exchanges an identity token for a session cookie.
func (h *sessionHandlers) create(ctx *router.Context) handler.Response {
	var req createSessionRequest
	if err := binder.JSON()(ctx.Request(), &req); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	if req.IDToken == "" {
		return response.Error(response.ErrBadRequest.WithMessage("idToken is required"))
	}

	credential, session, err := h.authenticator.CreateSession(ctx, req.IDToken)
	if err != nil {
		return response.Error(response.ErrUnauthorized.WithError(err))
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		if err := h.cookies.SetSigned(w, middleware.SessionCookieName, credential,
			cookie.WithSecure(h.secure),
			cookie.WithMaxAge(int(time.Until(session.ExpiresAt).Seconds())),
		); err != nil {
			return err
		}
		return response.JSON(sessionPayload(session))(w, r)
	}
}

// verify reports whether the request carries a valid session. It never fails:
// an anonymous request gets authenticated=false, not a 401.
func (h *sessionHandlers) verify(ctx *router.Context) handler.Response {
	credential, err := h.cookies.GetSigned(ctx.Request(), middleware.SessionCookieName)
	if err != nil {
		return response.JSON(map[string]any{"authenticated": false})
	}

	session, err := h.authenticator.ValidateSession(credential)
	if err != nil {
		return response.JSON(map[string]any{"authenticated": false})
	}

	payload := sessionPayload(session)
	payload["authenticated"] = true
	return response.JSON(payload)
}

// destroy clears the session cookie. Credentials are self-contained, so
// logout is purely client-side; there is no revocation list.
func (h *sessionHandlers) destroy(ctx *router.Context) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		h.cookies.Delete(w, middleware.SessionCookieName)
		return response.NoContent()(w, r)
	}
}

func sessionPayload(session auth.Session) map[string]any {
	return map[string]any{
		"user": map[string]any{
			"uid":           session.UID,
			"email":         session.Email,
			"emailVerified": session.EmailVerified,
		},
		"expiresAt": session.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
