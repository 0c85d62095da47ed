package response

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

type sseConfig struct {
	eventName string
	eventID   string
	idGen     func(any) string
	reconnect int
	keepAlive time.Duration
	onError   func(context.Context, error)
}

// EventOption configures Server-Sent Events behavior.
type EventOption func(*sseConfig)

// WithEventName sets the event name for SSE events.
func WithEventName(name string) EventOption {
	return func(s *sseConfig) { s.eventName = name }
}

// WithEventID sets a fixed event ID for all SSE events.
func WithEventID(id string) EventOption {
	return func(s *sseConfig) { s.eventID = id }
}

// WithEventIDGenerator derives the event ID from each event's data.
func WithEventIDGenerator(fn func(data any) string) EventOption {
	return func(s *sseConfig) { s.idGen = fn }
}

// WithReconnectTime sets the client reconnection time in milliseconds.
func WithReconnectTime(milliseconds int) EventOption {
	return func(s *sseConfig) { s.reconnect = milliseconds }
}

// WithKeepAlive sets the keep-alive interval. Zero disables keep-alives.
func WithKeepAlive(interval time.Duration) EventOption {
	return func(s *sseConfig) { s.keepAlive = interval }
}

// WithSSEErrorHandler sets a handler for events that fail to encode.
func WithSSEErrorHandler(handler func(context.Context, error)) EventOption {
	return func(s *sseConfig) { s.onError = handler }
}

// SSE creates a Server-Sent Events response from a channel of data.
func SSE(events <-chan any, opts ...EventOption) handler.Response {
	cfg := &sseConfig{keepAlive: DefaultSSEKeepAlive}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan body.Chunk)
		go cfg.run(ctx, events, out)

		h := w.Header()
		h.Set(HeaderCacheControl, "no-cache")
		h.Set(HeaderXAccelBuffering, "no")
		return Body(body.FromChannel(out), ContentTypeEventStream)(w, r)
	}
}

func (cfg *sseConfig) run(ctx context.Context, events <-chan any, out chan<- body.Chunk) {
	defer close(out)

	send := func(p []byte) bool {
		select {
		case out <- body.Chunk{Data: p}:
			return true
		case <-ctx.Done():
			return false
		}
	}

	hello := []byte(": connected\n\n")
	if cfg.reconnect > 0 {
		hello = append([]byte("retry: "+strconv.Itoa(cfg.reconnect)+"\n"), hello...)
	}
	if !send(hello) {
		return
	}

	var tick <-chan time.Time
	if cfg.keepAlive > 0 {
		t := time.NewTicker(cfg.keepAlive)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if !send([]byte(": keepalive\n\n")) {
				return
			}
		case data, ok := <-events:
			if !ok {
				return
			}
			p, err := cfg.encode(data)
			if err != nil {
				if cfg.onError != nil {
					cfg.onError(ctx, fmt.Errorf("failed to write event: %w", err))
				}
				continue
			}
			if !send(p) {
				return
			}
		}
	}
}

func (cfg *sseConfig) encode(data any) ([]byte, error) {
	var payload []byte
	switch v := data.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		payload = b
	}

	var buf bytes.Buffer
	if cfg.eventName != "" {
		fmt.Fprintf(&buf, "event: %s\n", cfg.eventName)
	}
	id := cfg.eventID
	if cfg.idGen != nil {
		id = cfg.idGen(data)
	}
	if id != "" {
		fmt.Fprintf(&buf, "id: %s\n", id)
	}
	fmt.Fprintf(&buf, "data: %s\n\n", payload)
	return buf.Bytes(), nil
}
