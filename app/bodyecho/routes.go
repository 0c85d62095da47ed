package bodyecho

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
	"github.com/dmitrymomot/httpbody/core/health"
	"github.com/dmitrymomot/httpbody/core/response"
	"github.com/dmitrymomot/httpbody/integration/storage/s3"
	"github.com/dmitrymomot/httpbody/middleware"
)

const trailerTickCount = "X-Tick-Count"

// Handler returns the routing tree. Object routes are only mounted when a
// storage backend is configured.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	base := []handler.Middleware{
		middleware.RequestID(),
		middleware.LoggingWithLogger(a.logger),
	}
	route := func(pattern string, h handler.Func, mws ...handler.Middleware) {
		chain := append(base[:len(base):len(base)], mws...)
		mux.Handle(pattern, a.server.Handler(handler.Chain(h, chain...)))
	}

	var checks []func(context.Context) error
	if a.storage != nil {
		checks = append(checks, a.storage.Ping)
	}
	route("GET /health/live", health.Liveness)
	route("GET /health/ready", health.Readiness(a.logger, checks...))

	route("POST /echo", a.echo, middleware.BodyLimitWithSize(a.config.EchoMaxBytes))
	route("GET /json", a.json)
	route("GET /stream", a.stream)

	if a.storage != nil {
		route("GET /objects/{key...}", a.getObject)
		route("PUT /objects/{key...}", a.putObject)
		route("DELETE /objects/{key...}", a.deleteObject)
	}

	return mux
}

// echo streams the request payload back as it arrives.
func (a *App) echo(r *http.Request, in *body.Body) handler.Response {
	contentType := r.Header.Get(response.HeaderContentType)
	if contentType == "" {
		contentType = response.ContentTypeOctetStream
	}
	return response.Body(body.Box(in), contentType)
}

func (a *App) json(r *http.Request, _ *body.Body) handler.Response {
	reqID, _ := middleware.GetRequestID(r.Context())
	return response.JSON(map[string]any{
		"service":    a.config.AppName,
		"request_id": reqID,
		"time":       time.Now().UTC(),
	})
}

// stream emits one line per tick and reports how many were sent in a
// trailer.
func (a *App) stream(r *http.Request, _ *body.Body) handler.Response {
	count := 10
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > a.config.StreamMaxTicks {
			return response.Error(response.ErrBadRequest.WithMessage(
				fmt.Sprintf("count must be between 0 and %d", a.config.StreamMaxTicks)))
		}
		count = n
	}

	ctx := r.Context()
	ch := make(chan body.Chunk)
	sent := 0
	go func() {
		defer close(ch)
		ticker := time.NewTicker(a.config.StreamInterval)
		defer ticker.Stop()
		for i := range count {
			if i > 0 {
				select {
				case <-ticker.C:
				case <-ctx.Done():
					return
				}
			}
			select {
			case ch <- body.Chunk{Data: fmt.Appendf(nil, "tick %d\n", i+1)}:
				sent++
			case <-ctx.Done():
				return
			}
		}
	}()

	b := body.FromChannel(ch, body.WithTrailers(func() http.Header {
		return http.Header{trailerTickCount: {strconv.Itoa(sent)}}
	}))
	return response.WithTrailers(response.Body(b, response.ContentTypeText), trailerTickCount)
}

func (a *App) getObject(r *http.Request, _ *body.Body) handler.Response {
	obj, err := a.storage.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		return response.Error(objectError(err))
	}
	headers := map[string]string{}
	if obj.ETag != "" {
		headers[response.HeaderETag] = obj.ETag
	}
	return response.WithHeaders(response.Body(obj.Body, obj.ContentType), headers)
}

func (a *App) putObject(r *http.Request, in *body.Body) handler.Response {
	res, err := a.storage.Put(r.Context(), r.PathValue("key"), in, r.Header.Get(response.HeaderContentType))
	if err != nil {
		return response.Error(objectError(err))
	}
	return response.JSONWithStatus(map[string]any{
		"key":  res.Key,
		"etag": res.ETag,
		"size": res.Size,
		"url":  a.storage.URL(res.Key),
	}, http.StatusCreated)
}

func (a *App) deleteObject(r *http.Request, _ *body.Body) handler.Response {
	if err := a.storage.Delete(r.Context(), r.PathValue("key")); err != nil {
		return response.Error(objectError(err))
	}
	return response.NoContent()
}

func objectError(err error) error {
	switch {
	case errors.Is(err, s3.ErrObjectNotFound):
		return response.ErrNotFound.WithError(err)
	case errors.Is(err, s3.ErrInvalidKey):
		return response.ErrBadRequest.WithError(err)
	case errors.Is(err, s3.ErrAccessDenied), errors.Is(err, s3.ErrBucketNotFound):
		return response.ErrBadGateway.WithError(err)
	case errors.Is(err, s3.ErrServiceUnavailable):
		return response.ErrServiceUnavailable.WithError(err)
	case errors.Is(err, s3.ErrRequestTimeout), errors.Is(err, s3.ErrOperationTimeout):
		return response.ErrGatewayTimeout.WithError(err)
	default:
		return err
	}
}
