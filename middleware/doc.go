// Package middleware provides handler.Middleware implementations for body
// handlers: request ID tagging, per content type body limits and request
// logging.
//
//	h := handler.Chain(upload,
//		middleware.RequestID(),
//		middleware.LoggingWithLogger(log),
//		middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
//			MaxSize:          10 * middleware.MB,
//			ContentTypeLimit: map[string]int64{"application/json": 1 * middleware.MB},
//		}),
//	)
//	mux.Handle("POST /upload", srv.Handler(h))
//
// Every middleware accepts a Skip function to bypass it for selected
// requests.
package middleware
