package body

import (
	"context"
	"io"
	"io/fs"
)

// ByteStream views a body as plain byte chunks, dropping trailers.
// It implements Stream, so it can feed another body.
type ByteStream struct {
	b *Body
}

// ByteStream returns the byte-chunk view of b. Polling the view consumes b.
func (b *Body) ByteStream() *ByteStream {
	return &ByteStream{b: b}
}

// PollNext returns the next data chunk. Trailers frames are skipped and
// failures are reported as *fs.PathError wrapping the body error.
func (s *ByteStream) PollNext(w Waker) Poll[[]byte] {
	for {
		p := s.b.PollFrame(w)
		switch {
		case p.IsReady():
			f, _ := p.Value()
			data, ok := f.Data()
			if !ok {
				continue
			}
			return Ready(data)
		case p.IsFailed():
			return Failed[[]byte](&fs.PathError{Op: "read", Path: "body", Err: p.Err()})
		case p.IsDone():
			return Done[[]byte]()
		default:
			return Pending[[]byte]()
		}
	}
}

// SizeHint returns the body size hint in the int range, saturating at
// math.MaxInt.
func (s *ByteStream) SizeHint() (lower int, upper int, ok bool) {
	return s.b.SizeHint().Ints()
}

// Close closes the underlying body.
func (s *ByteStream) Close() error {
	return s.b.Close()
}

// Reader returns a blocking io.ReadCloser over the stream. Reads park until
// the body wakes them or ctx is done.
func (s *ByteStream) Reader(ctx context.Context) io.ReadCloser {
	w, wake := newParker()
	return &streamReader{ctx: ctx, s: s, w: w, wake: wake}
}

type streamReader struct {
	ctx  context.Context
	s    *ByteStream
	w    Waker
	wake <-chan struct{}
	buf  []byte
	err  error
}

func (r *streamReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		poll := r.s.PollNext(r.w)
		switch {
		case poll.IsReady():
			r.buf, _ = poll.Value()
		case poll.IsDone():
			r.err = io.EOF
		case poll.IsFailed():
			r.err = poll.Err()
		default:
			select {
			case <-r.wake:
			case <-r.ctx.Done():
				return 0, r.ctx.Err()
			}
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *streamReader) Close() error {
	return r.s.Close()
}
