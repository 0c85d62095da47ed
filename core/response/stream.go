package response

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
)

// Stream creates a streaming response fed by writer. writer runs in its own
// goroutine and blocks while the client is slower than it; its error fails
// the body. Closing the response body unblocks any pending write.
//
// Example:
//
//	Stream(func(w io.Writer) error {
//	    for i := range 100 {
//	        fmt.Fprintf(w, "Data chunk %d\n", i)
//	    }
//	    return nil
//	})
func Stream(writer func(w io.Writer) error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(writer(pw))
		}()

		w.Header().Set(HeaderCacheControl, "no-cache")
		return Body(body.FromReader(pr), ContentTypeOctetStream)(w, r)
	}
}

type streamJSONConfig struct {
	onError func(context.Context, error)
}

// StreamOption configures streaming behavior.
type StreamOption func(*streamJSONConfig)

// WithStreamErrorHandler sets a handler for items that fail to encode.
// Such items are skipped.
func WithStreamErrorHandler(handler func(context.Context, error)) StreamOption {
	return func(s *streamJSONConfig) {
		s.onError = handler
	}
}

// StreamJSON creates a newline-delimited JSON response. Each item from the
// channel is one line; the body ends when the channel is closed or the
// request context is done.
func StreamJSON(items <-chan any, opts ...StreamOption) handler.Response {
	cfg := &streamJSONConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		lines := make(chan body.Chunk)
		go func() {
			defer close(lines)
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-items:
					if !ok {
						return
					}
					line, err := json.Marshal(item)
					if err != nil {
						if cfg.onError != nil {
							cfg.onError(ctx, fmt.Errorf("failed to encode item: %w", err))
						}
						continue
					}
					select {
					case lines <- body.Chunk{Data: append(line, '\n')}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()

		h := w.Header()
		h.Set(HeaderCacheControl, "no-cache")
		h.Set(HeaderXContentTypeOpts, "nosniff")
		return Body(body.FromChannel(lines), ContentTypeNDJSON)(w, r)
	}
}
