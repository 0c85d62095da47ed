package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
	"github.com/dmitrymomot/httpbody/core/response"
	"github.com/dmitrymomot/httpbody/middleware"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	capture := func(dst *string) handler.Func {
		return func(r *http.Request, _ *body.Body) handler.Response {
			*dst, _ = middleware.GetRequestID(r.Context())
			return response.NoContent()
		}
	}

	t.Run("generates_uuid", func(t *testing.T) {
		t.Parallel()

		var id string
		rec, err := run(t, middleware.RequestID()(capture(&id)), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		_, perr := uuid.Parse(id)
		assert.NoError(t, perr)
		assert.Equal(t, id, rec.Header().Get("X-Request-ID"))
	})

	t.Run("reuses_existing", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-7")

		var id string
		mw := middleware.RequestIDWithConfig(middleware.RequestIDConfig{UseExisting: true})
		rec, err := run(t, mw(capture(&id)), req)
		require.NoError(t, err)
		assert.Equal(t, "client-7", id)
		assert.Equal(t, "client-7", rec.Header().Get("X-Request-ID"))
	})

	t.Run("ignores_existing_by_default", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-7")

		var id string
		_, err := run(t, middleware.RequestID()(capture(&id)), req)
		require.NoError(t, err)
		assert.NotEqual(t, "client-7", id)
	})

	t.Run("custom_generator_and_header", func(t *testing.T) {
		t.Parallel()

		var id string
		mw := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator:  func() string { return "fixed" },
			HeaderName: "X-Trace",
		})
		rec, err := run(t, mw(capture(&id)), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, "fixed", id)
		assert.Equal(t, "fixed", rec.Header().Get("X-Trace"))
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		var id string
		mw := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Skip: func(*http.Request) bool { return true },
		})
		rec, err := run(t, mw(capture(&id)), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Empty(t, id)
		assert.Empty(t, rec.Header().Get("X-Request-ID"))
	})
}
