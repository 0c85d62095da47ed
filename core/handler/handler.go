package handler

import (
	"net/http"

	"github.com/dmitrymomot/httpbody/core/body"
)

// Response is a function that renders HTTP responses.
// It sets headers, status code, and writes the response body.
// Rendering errors are handled by the server's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// Func handles a request whose payload is exposed as an incoming body.
// The server closes in after the returned Response has been rendered, so
// a handler may stream it straight into an outgoing body.
type Func func(r *http.Request, in *body.Body) Response

// ErrorHandler renders an error returned by a Response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware wraps handlers to add cross-cutting functionality.
type Middleware func(next Func) Func

// Chain applies middlewares to h so that the first one runs outermost.
func Chain(h Func, middlewares ...Middleware) Func {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
