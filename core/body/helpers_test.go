package body_test

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/httpbody/core/body"
)

// scriptStream yields its chunks, then fails with err (or ends if err is nil).
type scriptStream struct {
	chunks [][]byte
	err    error
	pos    int
	closed atomic.Bool
}

func (s *scriptStream) PollNext(body.Waker) body.Poll[[]byte] {
	if s.pos < len(s.chunks) {
		c := s.chunks[s.pos]
		s.pos++
		return body.Ready(c)
	}
	if s.err != nil {
		return body.Failed[[]byte](s.err)
	}
	return body.Done[[]byte]()
}

func (s *scriptStream) Close() error {
	s.closed.Store(true)
	return nil
}

// frameImpl is a foreign body implementation replaying frames.
type frameImpl struct {
	frames []body.Frame
	err    error
	hint   body.SizeHint
	pos    int
	closed atomic.Bool
}

func (f *frameImpl) PollFrame(body.Waker) body.Poll[body.Frame] {
	if f.pos < len(f.frames) {
		fr := f.frames[f.pos]
		f.pos++
		return body.Ready(fr)
	}
	if f.err != nil {
		return body.Failed[body.Frame](f.err)
	}
	return body.Done[body.Frame]()
}

func (f *frameImpl) IsEndStream() bool     { return f.pos >= len(f.frames) && f.err == nil }
func (f *frameImpl) SizeHint() body.SizeHint { return f.hint }

func (f *frameImpl) Close() error {
	f.closed.Store(true)
	return nil
}

// blockingReceiver blocks every Read until it is closed, recording teardown.
type blockingReceiver struct {
	once    sync.Once
	done    chan struct{}
	reading chan struct{}
	closed  atomic.Bool
}

func newBlockingReceiver() *blockingReceiver {
	return &blockingReceiver{done: make(chan struct{}), reading: make(chan struct{}, 1)}
}

func (r *blockingReceiver) Read([]byte) (int, error) {
	select {
	case r.reading <- struct{}{}:
	default:
	}
	<-r.done
	return 0, io.ErrClosedPipe
}

func (r *blockingReceiver) Close() error {
	r.once.Do(func() {
		r.closed.Store(true)
		close(r.done)
	})
	return nil
}

// trailerReceiver serves data then exposes trailers after EOF.
type trailerReceiver struct {
	io.Reader
	trailer http.Header
	closed  atomic.Bool
}

func (r *trailerReceiver) Close() error {
	r.closed.Store(true)
	return nil
}

func (r *trailerReceiver) Trailer() http.Header { return r.trailer }

// countingReader counts Read calls.
type countingReader struct {
	r     io.Reader
	reads atomic.Int32
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads.Add(1)
	return c.r.Read(p)
}

type customErr struct{ msg string }

func (e *customErr) Error() string { return e.msg }

var errBoom = errors.New("boom")

// wakeRecorder is a Waker that signals a channel.
func wakeRecorder() (body.Waker, chan struct{}) {
	ch := make(chan struct{}, 1)
	return body.WakerFunc(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}), ch
}

type neverEnding byte

func (b neverEnding) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func readAll(r io.Reader) ([]byte, error) { return io.ReadAll(r) }

// lockedReceiver mimics a net/http request body: Close takes the same lock a
// pending Read holds, so it cannot return before that Read does. Read blocks
// until interrupt is called.
type lockedReceiver struct {
	mu        sync.Mutex
	once      sync.Once
	unblock   chan struct{}
	reading   chan struct{}
	closed    atomic.Bool
	interrupt atomic.Int32
}

func newLockedReceiver() *lockedReceiver {
	return &lockedReceiver{unblock: make(chan struct{}), reading: make(chan struct{}, 1)}
}

func (r *lockedReceiver) Read([]byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case r.reading <- struct{}{}:
	default:
	}
	<-r.unblock
	return 0, errors.New("i/o timeout")
}

func (r *lockedReceiver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed.Store(true)
	return nil
}

func (r *lockedReceiver) Interrupt() error {
	r.interrupt.Add(1)
	r.once.Do(func() { close(r.unblock) })
	return nil
}
