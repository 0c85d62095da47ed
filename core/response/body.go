package response

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
)

// Body creates a response that drives b onto the writer with 200 OK status.
func Body(b *body.Body, contentType string) handler.Response {
	return BodyWithStatus(b, contentType, http.StatusOK)
}

// BodyWithStatus drives b onto the writer with a custom status code.
//
// The first frame is pulled before any header is written, so a body that
// fails immediately is returned as an error and can still become an error
// response. Once streaming has started, later failures are returned but the
// status line is already on the wire. An exact size hint becomes the
// Content-Length header unless trailers are expected. Trailers frames are
// sent as HTTP trailers, which requires chunked encoding: a sized body that
// ends with trailers must declare them through WithTrailers or they are
// dropped. The body is always closed.
func BodyWithStatus(b *body.Body, contentType string, status int) handler.Response {
	if b == nil {
		b = body.Empty()
	}
	if status == 0 {
		status = http.StatusOK
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		defer b.Close()

		ctx := r.Context()
		f, err := b.Frame(ctx)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		h := w.Header()
		if contentType != "" {
			h.Set(HeaderContentType, contentType)
		}
		if !bodyAllowed(status) {
			w.WriteHeader(status)
			return nil
		}
		if n, ok := exactLength(b, f, err); ok && !expectsTrailers(h, f, err) {
			h.Set(HeaderContentLength, strconv.FormatUint(n, 10))
		}
		w.WriteHeader(status)
		if r.Method == http.MethodHead {
			return nil
		}

		flusher, _ := w.(http.Flusher)
		for err == nil {
			switch {
			case f.IsData():
				data, _ := f.Data()
				if _, werr := w.Write(data); werr != nil {
					return werr
				}
				if flusher != nil {
					flusher.Flush()
				}
			case f.IsTrailers():
				trailers, _ := f.Trailers()
				for k, vv := range trailers {
					h[http.TrailerPrefix+k] = vv
				}
			}
			f, err = b.Frame(ctx)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

// exactLength reports the full payload length when it is known after the
// first frame has been taken.
func exactLength(b *body.Body, first body.Frame, err error) (uint64, bool) {
	if err != nil {
		return 0, true
	}
	rest, ok := b.SizeHint().Exact()
	if !ok {
		return 0, false
	}
	return uint64(first.Len()) + rest, true
}

// expectsTrailers reports whether trailers were declared or already arrived.
// net/http only sends them on chunked responses.
func expectsTrailers(h http.Header, first body.Frame, err error) bool {
	if h.Get(HeaderTrailer) != "" {
		return true
	}
	return err == nil && first.IsTrailers()
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
