package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiethour/quiethour/internal/cookie"
)

const testSecret = "test-secret-key-32-characters!!!"
const testSecret2 = "another-secret-key-32-chars!!!!!"

func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	r := &http.Request{Header: http.Header{}}
	for _, c := range w.Header().Values("Set-Cookie") {
		r.Header.Add("Cookie", c)
	}
	return r
}

func TestManager_BasicOperations(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "test", "value123"))

		value, err := m.Get(requestWithCookies(w), "test")
		require.NoError(t, err)
		assert.Equal(t, "value123", value)
	})

	t.Run("secure defaults", func(t *testing.T) {
		t.Parallel()

		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "session", "abc"))

		header := w.Header().Get("Set-Cookie")
		assert.Contains(t, header, "HttpOnly")
		assert.Contains(t, header, "SameSite=Strict")
		assert.Contains(t, header, "Path=/")
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err = m.Get(r, "absent")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("delete expires cookie", func(t *testing.T) {
		t.Parallel()

		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		m.Delete(w, "session")

		header := w.Header().Get("Set-Cookie")
		assert.Contains(t, header, "session=")
		assert.Contains(t, header, "Max-Age=0")
	})
}

func TestManager_SignedCookies(t *testing.T) {
	t.Parallel()

	t.Run("signed round trip", func(t *testing.T) {
		t.Parallel()

		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "signed", "payload"))

		value, err := m.GetSigned(requestWithCookies(w), "signed")
		require.NoError(t, err)
		assert.Equal(t, "payload", value)
	})

	t.Run("tampered value rejected", func(t *testing.T) {
		t.Parallel()

		m, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "signed", "payload"))

		r := requestWithCookies(w)
		raw, err := m.Get(r, "signed")
		require.NoError(t, err)

		tampered := strings.Replace(raw, "|", "x|", 1)
		r2 := &http.Request{Header: http.Header{}}
		r2.Header.Set("Cookie", (&http.Cookie{Name: "signed", Value: tampered}).String())

		_, err = m.GetSigned(r2, "signed")
		assert.Error(t, err)
	})

	t.Run("key rotation verifies old signatures", func(t *testing.T) {
		t.Parallel()

		old, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, old.SetSigned(w, "signed", "payload"))

		// New primary key, old key retained for verification.
		rotated, err := cookie.New([]string{testSecret2, testSecret})
		require.NoError(t, err)

		value, err := rotated.GetSigned(requestWithCookies(w), "signed")
		require.NoError(t, err)
		assert.Equal(t, "payload", value)
	})
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
}
