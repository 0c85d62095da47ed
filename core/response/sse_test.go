package response_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpbody/core/response"
)

func TestSSE(t *testing.T) {
	t.Parallel()

	t.Run("protocol_format", func(t *testing.T) {
		t.Parallel()

		events := make(chan any, 3)
		events <- "plain"
		events <- []byte("raw")
		events <- map[string]int{"n": 1}
		close(events)

		rec, err := serve(t, http.MethodGet, response.SSE(events,
			response.WithEventName("update"),
			response.WithEventID("7"),
			response.WithReconnectTime(1500),
			response.WithKeepAlive(0),
		))
		require.NoError(t, err)

		out := rec.Body.String()
		assert.True(t, strings.HasPrefix(out, "retry: 1500\n: connected\n\n"))
		assert.Contains(t, out, "event: update\nid: 7\ndata: plain\n\n")
		assert.Contains(t, out, "data: raw\n\n")
		assert.Contains(t, out, `data: {"n":1}`+"\n\n")
		assert.Equal(t, response.ContentTypeEventStream, rec.Header().Get(response.HeaderContentType))
		assert.Equal(t, "no", rec.Header().Get(response.HeaderXAccelBuffering))
	})

	t.Run("id_generator", func(t *testing.T) {
		t.Parallel()

		events := make(chan any, 1)
		events <- "x"
		close(events)

		rec, err := serve(t, http.MethodGet, response.SSE(events,
			response.WithEventID("static"),
			response.WithEventIDGenerator(func(any) string { return "gen" }),
		))
		require.NoError(t, err)
		assert.Contains(t, rec.Body.String(), "id: gen\n")
		assert.NotContains(t, rec.Body.String(), "static")
	})

	t.Run("keep_alive", func(t *testing.T) {
		t.Parallel()

		events := make(chan any)
		go func() {
			time.Sleep(60 * time.Millisecond)
			close(events)
		}()

		rec, err := serve(t, http.MethodGet, response.SSE(events, response.WithKeepAlive(10*time.Millisecond)))
		require.NoError(t, err)
		assert.Contains(t, rec.Body.String(), ": keepalive\n\n")
	})

	t.Run("encode_error_skipped", func(t *testing.T) {
		t.Parallel()

		events := make(chan any, 2)
		events <- make(chan int)
		events <- "after"
		close(events)

		var calls atomic.Int32
		rec, err := serve(t, http.MethodGet, response.SSE(events,
			response.WithKeepAlive(0),
			response.WithSSEErrorHandler(func(context.Context, error) { calls.Add(1) }),
		))
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
		assert.Contains(t, rec.Body.String(), "data: after\n\n")
	})

	t.Run("stops_on_context_cancel", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		done := make(chan error, 1)
		go func() { done <- response.SSE(make(chan any), response.WithKeepAlive(0))(rec, req) }()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if err != nil {
				assert.ErrorIs(t, err, context.Canceled)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("SSE did not stop after cancellation")
		}
	})
}
