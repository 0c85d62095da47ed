package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
	"github.com/dmitrymomot/httpbody/core/response"
	"github.com/dmitrymomot/httpbody/middleware"
)

func collect(r *http.Request, in *body.Body) handler.Response {
	col, err := in.Collect(r.Context())
	if err != nil {
		return response.Error(err)
	}
	return response.Bytes(col.Bytes(), "")
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	t.Run("within_limit", func(t *testing.T) {
		t.Parallel()

		rec, err := run(t, middleware.BodyLimitWithSize(16)(collect), post("small"))
		require.NoError(t, err)
		assert.Equal(t, "small", rec.Body.String())
	})

	t.Run("declared_length_rejected_early", func(t *testing.T) {
		t.Parallel()

		called := false
		h := middleware.BodyLimitWithSize(4)(func(*http.Request, *body.Body) handler.Response {
			called = true
			return response.NoContent()
		})
		_, err := run(t, h, post("far too large"))
		require.Error(t, err)
		assert.False(t, called)
		assert.Equal(t, http.StatusRequestEntityTooLarge, response.StatusFor(err))
		assert.Contains(t, err.Error(), "13 bytes")
	})

	t.Run("streamed_body_rejected_while_reading", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader(strings.Repeat("x", 64))))
		req.ContentLength = -1

		_, err := run(t, middleware.BodyLimitWithSize(8)(collect), req)
		assert.ErrorIs(t, err, body.ErrBodyTooLarge)
	})

	t.Run("content_type_limit", func(t *testing.T) {
		t.Parallel()

		mw := middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
			MaxSize:          1 * middleware.KB,
			ContentTypeLimit: map[string]int64{"application/json": 4},
		})

		req := post(`{"a":1}`)
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		_, err := run(t, mw(collect), req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, response.StatusFor(err))

		req = post(`plain text`)
		req.Header.Set("Content-Type", "text/plain")
		rec, err := run(t, mw(collect), req)
		require.NoError(t, err)
		assert.Equal(t, "plain text", rec.Body.String())
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		mw := middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
			MaxSize: 1,
			Skip:    func(*http.Request) bool { return true },
		})
		rec, err := run(t, mw(collect), post("unlimited"))
		require.NoError(t, err)
		assert.Equal(t, "unlimited", rec.Body.String())
	})
}
