package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
	"github.com/dmitrymomot/httpbody/core/logger"
)

type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for request logging (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging (default: "http")
	Component string
}

func Logging() handler.Middleware {
	return LoggingWithConfig(LoggingConfig{})
}

func LoggingWithLogger(log *slog.Logger) handler.Middleware {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig logs one record per request once its response has been
// rendered: the incoming body variant and declared size, the status, the
// bytes written and the latency.
func LoggingWithConfig(cfg LoggingConfig) handler.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.Func) handler.Func {
		return func(r *http.Request, in *body.Body) handler.Response {
			if cfg.Skip != nil && cfg.Skip(r) {
				return next(r, in)
			}

			start := time.Now()
			attrs := []slog.Attr{
				logger.Component(cfg.Component),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.BodyKind(in.Kind()),
			}
			if n, ok := in.SizeHint().Exact(); ok {
				attrs = append(attrs, logger.BytesIn(int64(n)))
			}
			if id, ok := GetRequestID(r.Context()); ok {
				attrs = append(attrs, logger.RequestID(id))
			}

			resp := next(r, in)
			if resp == nil {
				return nil
			}
			return func(w http.ResponseWriter, req *http.Request) error {
				sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
				err := resp(sw, req)

				elapsed := time.Since(start)
				attrs = append(attrs,
					logger.StatusCode(sw.status),
					logger.BytesOut(sw.written),
					logger.Latency(elapsed),
					logger.Error(err),
				)

				level := cfg.LogLevel
				if elapsed > cfg.SlowRequestThreshold && level < slog.LevelWarn {
					level = slog.LevelWarn
				}
				cfg.Logger.LogAttrs(req.Context(), level, "request completed", attrs...)
				return err
			}
		}
	}
}

type statusWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.written += int64(n)
	return n, err
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
