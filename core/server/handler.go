package server

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
	"github.com/dmitrymomot/httpbody/core/logger"
)

// Handler adapts a body handler to net/http.
//
// The request payload is wrapped as an incoming body, capped at the
// configured maximum, and closed once the response has been rendered.
// Errors returned before anything was written go to the error handler;
// errors after the status line was sent can only be logged.
func (s *Server) Handler(h handler.Func) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rc := http.NewResponseController(w)
		// Handlers may stream the request back while still reading it.
		_ = rc.EnableFullDuplex()

		in := s.incoming(r, rc)
		defer in.Close()

		rw := &responseWriter{ResponseWriter: w}
		resp := h(r, in)
		if resp == nil {
			rw.WriteHeader(http.StatusNoContent)
			return
		}

		err := resp(rw, r)
		if err == nil {
			s.logger.DebugContext(r.Context(), "request handled",
				logger.Component("server"),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.StatusCode(rw.status),
				logger.BytesOut(rw.written),
				logger.Latency(time.Since(start)),
			)
			return
		}

		if rw.wroteHeader {
			s.logger.WarnContext(r.Context(), "response aborted after headers were sent",
				logger.Component("server"),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.BytesOut(rw.written),
				logger.Error(err),
			)
			return
		}

		s.logger.InfoContext(r.Context(), "request failed",
			logger.Component("server"),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Error(err),
		)
		s.errorHandler(w, r, err)
	})
}

// incoming wraps the request payload. Closing it expires the connection
// read deadline so a receive stuck on a stalled client returns at once.
func (s *Server) incoming(r *http.Request, rc *http.ResponseController) *body.Body {
	in := body.FromRequest(r,
		body.WithReadSize(s.readChunkSize),
		body.WithInterrupt(func() error { return rc.SetReadDeadline(time.Now()) }),
	)
	if in.Kind() == body.KindEmpty || s.maxBodyBytes <= 0 {
		return in
	}
	return body.Limit(in, s.maxBodyBytes)
}

// responseWriter records whether the status line went out and how many
// bytes followed.
type responseWriter struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(p)
	w.written += int64(n)
	return n, err
}

func (w *responseWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
