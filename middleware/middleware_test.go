package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
)

// run drives h the way the server does: wrap the payload, render the
// response, hand errors back.
func run(t *testing.T, h handler.Func, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	in := body.FromRequest(req)
	defer in.Close()

	rec := httptest.NewRecorder()
	resp := h(req, in)
	require.NotNil(t, resp)
	return rec, resp(rec, req)
}

func post(payload string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(payload))
}
