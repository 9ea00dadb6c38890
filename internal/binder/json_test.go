package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiethour/quiethour/internal/binder"
)

type upsertRequest struct {
	BibleText string `json:"bibleText"`
	Title     string `json:"title"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	bind := binder.JSON()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()

		var req upsertRequest
		err := bind(jsonRequest(`{"bibleText":"John 3:16","title":"Light"}`), &req)
		require.NoError(t, err)
		assert.Equal(t, "John 3:16", req.BibleText)
		assert.Equal(t, "Light", req.Title)
	})

	t.Run("charset parameter accepted", func(t *testing.T) {
		t.Parallel()

		r := jsonRequest(`{"title":"Light"}`)
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		var req upsertRequest
		assert.NoError(t, bind(r, &req))
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		var req upsertRequest
		assert.ErrorIs(t, bind(r, &req), binder.ErrMissingContentType)
	})

	t.Run("wrong media type", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "text/plain")
		var req upsertRequest
		assert.ErrorIs(t, bind(r, &req), binder.ErrUnsupportedMediaType)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		var req upsertRequest
		err := bind(jsonRequest(`{"nope":true}`), &req)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		t.Parallel()

		var req upsertRequest
		err := bind(jsonRequest(``), &req)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("trailing data rejected", func(t *testing.T) {
		t.Parallel()

		var req upsertRequest
		err := bind(jsonRequest(`{"title":"a"}{"title":"b"}`), &req)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})
}
