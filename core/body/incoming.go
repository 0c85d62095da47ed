package body

import (
	"io"
	"net/http"
)

// Receiver is the receive side of a connection carrying a message body.
// Read blocks until data arrives; Close aborts the receive and must unblock
// a pending Read.
type Receiver interface {
	io.ReadCloser
}

// TrailerReceiver is implemented by receivers that learn trailer fields
// once the body has been fully read.
type TrailerReceiver interface {
	Receiver
	Trailer() http.Header
}

type incomingConfig struct {
	length        int64
	trailers      func() http.Header
	readSize      int
	interrupt     func() error
	blockingClose bool
}

// IncomingOption configures an incoming body.
type IncomingOption func(*incomingConfig)

// WithContentLength declares the announced payload length. Negative means
// unknown, which is the default.
func WithContentLength(n int64) IncomingOption {
	return func(c *incomingConfig) {
		c.length = n
	}
}

// WithTrailerSource overrides where trailer fields are taken from.
func WithTrailerSource(fn func() http.Header) IncomingOption {
	return func(c *incomingConfig) {
		c.trailers = fn
	}
}

// WithReadSize sets the buffer size of each receive.
func WithReadSize(n int) IncomingOption {
	return func(c *incomingConfig) {
		if n > 0 {
			c.readSize = n
		}
	}
}

// WithInterrupt sets a function that makes pending and future receives fail
// at once, such as expiring the connection read deadline. Close calls it
// before closing a receiver that has not reached its end; an error means it
// had no effect.
func WithInterrupt(fn func() error) IncomingOption {
	return func(c *incomingConfig) {
		c.interrupt = fn
	}
}

// WithBlockingClose declares that the receiver's Close may wait for the peer
// instead of aborting, as net/http request bodies do: Close is serialized
// with a pending Read and drains what is left. Without a working interrupt,
// Close then releases such a receiver in the background.
func WithBlockingClose() IncomingOption {
	return func(c *incomingConfig) {
		c.blockingClose = true
	}
}

// NewIncoming returns a body fed by a live connection. Receiving starts on
// the first poll; at most one chunk is buffered ahead of the consumer.
func NewIncoming(rc Receiver, opts ...IncomingOption) *Body {
	cfg := incomingConfig{length: -1, readSize: DefaultChunkSize}
	if tr, ok := rc.(TrailerReceiver); ok {
		cfg.trailers = tr.Trailer
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	size := cfg.readSize
	if cfg.length >= 0 && cfg.length < int64(size) {
		size = int(cfg.length)
		if size == 0 {
			size = 1
		}
	}
	produce := func(<-chan struct{}) ([]byte, error) {
		buf := make([]byte, size)
		n, err := rc.Read(buf)
		return buf[:n], err
	}

	p := newPump(produce, rc.Close, !cfg.blockingClose)
	p.interrupt = cfg.interrupt

	return &Body{kind: KindIncoming, incoming: &incomingBody{
		p:        p,
		length:   cfg.length,
		trailers: cfg.trailers,
	}}
}

// FromRequest returns the incoming body of a server request. Requests
// without a body yield Empty. Closing it never waits for a stalled client;
// pass WithInterrupt to also abort the pending read.
func FromRequest(r *http.Request, opts ...IncomingOption) *Body {
	if r.Body == nil || r.Body == http.NoBody {
		return Empty()
	}
	base := []IncomingOption{
		WithContentLength(r.ContentLength),
		WithTrailerSource(func() http.Header { return r.Trailer }),
		WithBlockingClose(),
	}
	return NewIncoming(r.Body, append(base, opts...)...)
}

type incomingBody struct {
	p        *pump
	length   int64
	received int64
	trailers func() http.Header
	done     bool
	err      error
}

func (in *incomingBody) pollFrame(w Waker) Poll[Frame] {
	if in.done {
		return Done[Frame]()
	}
	if in.err != nil {
		return Failed[Frame](in.err)
	}

	p := in.p.poll(w)
	switch {
	case p.IsReady():
		data, _ := p.Value()
		in.received += int64(len(data))
		if in.length >= 0 && in.received > in.length {
			in.err = ConnectionError(ErrLengthMismatch)
			return Failed[Frame](in.err)
		}
		return Ready(DataFrame(data))
	case p.IsDone():
		if in.length >= 0 && in.received < in.length {
			in.err = ConnectionError(io.ErrUnexpectedEOF)
			return Failed[Frame](in.err)
		}
		in.done = true
		if h := in.trailerFields(); len(h) > 0 {
			return Ready(TrailersFrame(h))
		}
		return Done[Frame]()
	case p.IsFailed():
		in.err = ConnectionError(p.Err())
		return Failed[Frame](in.err)
	default:
		return Pending[Frame]()
	}
}

// trailerFields returns the received trailers, skipping keys that were
// announced but never filled.
func (in *incomingBody) trailerFields() http.Header {
	if in.trailers == nil {
		return nil
	}
	src := in.trailers()
	var h http.Header
	for k, vv := range src {
		if len(vv) == 0 {
			continue
		}
		if h == nil {
			h = make(http.Header, len(src))
		}
		h[k] = vv
	}
	return h
}

func (in *incomingBody) isEndStream() bool {
	if in.done {
		return true
	}
	if in.err != nil {
		return false
	}
	if in.length >= 0 && in.received == in.length && in.trailers == nil {
		return true
	}
	return in.p.finished() && in.trailers == nil
}

func (in *incomingBody) sizeHint() SizeHint {
	if in.done {
		return Exact(0)
	}
	if in.length >= 0 {
		remaining := in.length - in.received
		if remaining < 0 {
			remaining = 0
		}
		return Exact(uint64(remaining))
	}
	return UnknownSize()
}

func (in *incomingBody) close() error {
	in.done = true
	return in.p.close()
}
