package middleware

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
	"github.com/dmitrymomot/httpbody/core/response"
)

const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
)

type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool

	// MaxSize is the maximum allowed size in bytes (default: 4MB)
	MaxSize int64

	// ContentTypeLimit sets per media type limits, e.g.
	// {"application/json": 1 * MB, "multipart/form-data": 10 * MB}
	ContentTypeLimit map[string]int64

	// ErrorHandler builds the response for requests whose declared
	// Content-Length exceeds the limit
	ErrorHandler func(r *http.Request, contentLength, maxSize int64) handler.Response
}

func BodyLimit() handler.Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{})
}

func BodyLimitWithSize(maxSize int64) handler.Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig caps the incoming body. A declared Content-Length over
// the limit is rejected before the handler runs; a body without one fails
// with body.ErrBodyTooLarge when it crosses the limit.
func BodyLimitWithConfig(cfg BodyLimitConfig) handler.Middleware {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4 * MB
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(_ *http.Request, contentLength, maxSize int64) handler.Response {
			return response.Error(response.ErrRequestEntityTooLarge.
				WithMessage(fmt.Sprintf("Request body too large. Size: %s, Maximum allowed: %s",
					formatBytes(contentLength), formatBytes(maxSize))).
				WithDetails(map[string]any{"limit": maxSize, "size": contentLength}))
		}
	}

	return func(next handler.Func) handler.Func {
		return func(r *http.Request, in *body.Body) handler.Response {
			if cfg.Skip != nil && cfg.Skip(r) {
				return next(r, in)
			}

			maxSize := cfg.MaxSize
			if cfg.ContentTypeLimit != nil {
				if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
					if limit, ok := cfg.ContentTypeLimit[mediaType]; ok {
						maxSize = limit
					}
				}
			}

			if r.ContentLength > maxSize {
				in.Close()
				return cfg.ErrorHandler(r, r.ContentLength, maxSize)
			}
			return next(r, body.Limit(in, maxSize))
		}
	}
}

func formatBytes(bytes int64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
