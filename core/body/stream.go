package body

import (
	"io"
	"net/http"
)

// DefaultChunkSize is the read size used by reader-backed sources.
const DefaultChunkSize = 32 << 10

// Stream is an asynchronous, fallible source of byte chunks.
// PollNext follows the same contract as Impl.PollFrame.
type Stream interface {
	PollNext(w Waker) Poll[[]byte]
}

// Chunk is one item delivered through a channel source.
type Chunk struct {
	Data []byte
	Err  error
}

type streamConfig struct {
	mapErr    func(error) error
	trailers  func() http.Header
	hint      SizeHint
	chunkSize int
}

// StreamOption configures stream-backed bodies.
type StreamOption func(*streamConfig)

// WithErrorMapper replaces the default SourceError conversion of stream
// failures. The mapper's result is wrapped as ErrSource unless it already is
// a *Error.
func WithErrorMapper(fn func(error) error) StreamOption {
	return func(c *streamConfig) {
		c.mapErr = fn
	}
}

// WithTrailers makes the body emit a trailers frame after the last chunk.
// fn is called once, after the source reported completion.
func WithTrailers(fn func() http.Header) StreamOption {
	return func(c *streamConfig) {
		c.trailers = fn
	}
}

// WithSizeHint declares the total size of the stream. The reported hint
// shrinks as data is produced.
func WithSizeHint(h SizeHint) StreamOption {
	return func(c *streamConfig) {
		c.hint = h
	}
}

// WithChunkSize sets the buffer size used per read by FromReader.
func WithChunkSize(n int) StreamOption {
	return func(c *streamConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

func newStreamConfig(opts []StreamOption) streamConfig {
	cfg := streamConfig{
		mapErr:    SourceError,
		hint:      UnknownSize(),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// FromStream returns a boxed body that maps each chunk of s to a data frame.
// s is not polled until the body is.
func FromStream(s Stream, opts ...StreamOption) *Body {
	cfg := newStreamConfig(opts)
	return &Body{kind: KindBoxed, boxed: &streamBody{src: s, cfg: cfg}}
}

// FromReader returns a boxed body that reads r in chunks. Nothing is read
// before the first poll and at most one chunk is buffered. If r implements
// io.Closer it is closed when the body is closed.
func FromReader(r io.Reader, opts ...StreamOption) *Body {
	cfg := newStreamConfig(opts)
	size := cfg.chunkSize
	produce := func(<-chan struct{}) ([]byte, error) {
		buf := make([]byte, size)
		n, err := r.Read(buf)
		return buf[:n], err
	}
	var release func() error
	c, closable := r.(io.Closer)
	if closable {
		release = c.Close
	}
	src := &pumpStream{p: newPump(produce, release, closable)}
	return &Body{kind: KindBoxed, boxed: &streamBody{src: src, cfg: cfg}}
}

// FromChannel returns a boxed body fed by ch. The body ends when ch is
// closed; a Chunk with a non-nil Err fails it.
func FromChannel(ch <-chan Chunk, opts ...StreamOption) *Body {
	cfg := newStreamConfig(opts)
	produce := func(stop <-chan struct{}) ([]byte, error) {
		select {
		case c, ok := <-ch:
			if !ok {
				return nil, io.EOF
			}
			return c.Data, c.Err
		case <-stop:
			return nil, io.EOF
		}
	}
	src := &pumpStream{p: newPump(produce, nil, true)}
	return &Body{kind: KindBoxed, boxed: &streamBody{src: src, cfg: cfg}}
}

// pumpStream exposes a pump as a Stream.
type pumpStream struct {
	p *pump
}

func (s *pumpStream) PollNext(w Waker) Poll[[]byte] { return s.p.poll(w) }

func (s *pumpStream) Close() error { return s.p.close() }

type streamPhase uint8

const (
	phaseData streamPhase = iota
	phaseDone
	phaseFailed
)

// streamBody adapts a Stream to Impl.
type streamBody struct {
	src   Stream
	cfg   streamConfig
	phase streamPhase
	sent  uint64
	err   error
}

func (s *streamBody) PollFrame(w Waker) Poll[Frame] {
	switch s.phase {
	case phaseDone:
		return Done[Frame]()
	case phaseFailed:
		return Failed[Frame](s.err)
	}

	for {
		p := s.src.PollNext(w)
		switch {
		case p.IsReady():
			data, _ := p.Value()
			if len(data) == 0 {
				continue
			}
			s.sent += uint64(len(data))
			return Ready(DataFrame(data))
		case p.IsDone():
			s.phase = phaseDone
			if s.cfg.trailers != nil {
				return Ready(TrailersFrame(s.cfg.trailers()))
			}
			return Done[Frame]()
		case p.IsFailed():
			err := s.cfg.mapErr(p.Err())
			if err == nil {
				err = p.Err()
			}
			s.err = newError(KindSource, "poll", err)
			s.phase = phaseFailed
			return Failed[Frame](s.err)
		default:
			return Pending[Frame]()
		}
	}
}

func (s *streamBody) IsEndStream() bool {
	return s.phase == phaseDone
}

func (s *streamBody) SizeHint() SizeHint {
	if s.phase == phaseDone {
		return Exact(0)
	}
	return s.cfg.hint.consumed(s.sent)
}

func (s *streamBody) Close() error {
	s.phase = phaseDone
	if c, ok := s.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
