package server

import (
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/dmitrymomot/httpbody/core/handler"
)

// Option configures server behavior.
type Option func(*Server)

// WithTLS configures TLS settings for HTTPS.
func WithTLS(config *tls.Config) Option {
	return func(s *Server) {
		s.tlsConfig = config
	}
}

// WithLogger sets a custom logger for server operations. nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownTimeout sets the maximum time to wait for graceful shutdown.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.shutdown = timeout
	}
}

func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = timeout
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = timeout
	}
}

func WithIdleTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = timeout
	}
}

func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) {
		s.maxHeaderBytes = n
	}
}

// WithMaxBodyBytes caps request bodies seen by handlers. Zero or less
// disables the cap.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

// WithReadChunkSize sets how many bytes each request body receive asks for.
func WithReadChunkSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.readChunkSize = n
		}
	}
}

// WithErrorHandler replaces the handler rendering errors returned by
// responses. Defaults to response.ErrorHandler.
func WithErrorHandler(fn handler.ErrorHandler) Option {
	return func(s *Server) {
		if fn != nil {
			s.errorHandler = fn
		}
	}
}
