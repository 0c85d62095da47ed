package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
)

type requestIDContextKey struct{}

type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting reuses an ID sent by the client
	UseExisting bool
}

// RequestID tags every request with a UUID v4, stores it in the request
// context and echoes it in the X-Request-ID response header.
func RequestID() handler.Middleware {
	return RequestIDWithConfig(RequestIDConfig{})
}

func RequestIDWithConfig(cfg RequestIDConfig) handler.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = uuid.NewString
	}

	return func(next handler.Func) handler.Func {
		return func(r *http.Request, in *body.Body) handler.Response {
			if cfg.Skip != nil && cfg.Skip(r) {
				return next(r, in)
			}

			var id string
			if cfg.UseExisting {
				id = r.Header.Get(cfg.HeaderName)
			}
			if id == "" {
				id = cfg.Generator()
			}

			r = r.WithContext(WithRequestID(r.Context(), id))
			resp := next(r, in)
			if resp == nil {
				return nil
			}
			return func(w http.ResponseWriter, req *http.Request) error {
				w.Header().Set(cfg.HeaderName, id)
				return resp(w, req.WithContext(WithRequestID(req.Context(), id)))
			}
		}
	}
}

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// GetRequestID returns the request ID stored in ctx.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok && id != ""
}
