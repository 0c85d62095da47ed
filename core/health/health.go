package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
	"github.com/dmitrymomot/httpbody/core/logger"
	"github.com/dmitrymomot/httpbody/core/response"
)

// Liveness indicates if the service process is running.
// Always returns "ALIVE" with 200 OK. No dependency checks.
func Liveness(*http.Request, *body.Body) handler.Response {
	return response.String("ALIVE")
}

// NoContent returns HTTP 204 without body. Ideal for high-frequency checks.
func NoContent(*http.Request, *body.Body) handler.Response {
	return response.NoContent()
}

// Readiness verifies all service dependencies are functioning.
// Returns "READY" if all checks pass, 503 Service Unavailable if any fail.
func Readiness(log *slog.Logger, fn ...func(context.Context) error) handler.Func {
	if log == nil {
		log = logger.Nop()
	}
	return func(r *http.Request, _ *body.Body) handler.Response {
		ctx := r.Context()
		for _, f := range fn {
			if err := f(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Component("health"), logger.Error(err))
				return response.Error(response.ErrServiceUnavailable)
			}
		}

		return response.String("READY")
	}
}
