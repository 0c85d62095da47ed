package response

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/httpbody/core/handler"
)

// WithHeaders sets headers before the wrapped response is rendered.
func WithHeaders(response handler.Response, headers map[string]string) handler.Response {
	if response == nil || len(headers) == 0 {
		return response
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return response(w, r)
	}
}

// WithTrailers announces trailer names ahead of the body so that clients
// which require the Trailer header accept them.
func WithTrailers(response handler.Response, names ...string) handler.Response {
	if response == nil || len(names) == 0 {
		return response
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for _, name := range names {
			w.Header().Add(HeaderTrailer, name)
		}
		return response(w, r)
	}
}

// WithCache sets caching headers. maxAge <= 0 disables caching.
func WithCache(response handler.Response, maxAge time.Duration) handler.Response {
	if response == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		h := w.Header()
		if maxAge > 0 {
			h.Set(HeaderCacheControl, fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
			h.Set(HeaderExpires, time.Now().Add(maxAge).Format(http.TimeFormat))
		} else {
			h.Set(HeaderCacheControl, "no-cache, no-store, must-revalidate")
			h.Set(HeaderPragma, "no-cache")
			h.Set(HeaderExpires, "0")
		}
		return response(w, r)
	}
}
