package body

import (
	"fmt"
	"io"
)

// Limit returns a boxed body that fails with ErrBodyTooLarge once b produces
// more than max bytes. A body whose size hint already exceeds max fails on
// the first poll without reading anything.
func Limit(b *Body, max int64) *Body {
	if max < 0 {
		max = 0
	}
	return &Body{kind: KindBoxed, boxed: &limitBody{inner: b, max: max}}
}

type limitBody struct {
	inner *Body
	max   int64
	read  int64
	err   error
}

func (l *limitBody) tooLarge(size int64) error {
	return &Error{
		Kind: KindSource,
		Op:   "limit",
		Err:  fmt.Errorf("%w: limit %d bytes, got %d", ErrBodyTooLarge, l.max, size),
	}
}

func (l *limitBody) PollFrame(w Waker) Poll[Frame] {
	if l.err != nil {
		return Failed[Frame](l.err)
	}
	if l.read == 0 {
		if lower := l.inner.SizeHint().Lower(); lower > uint64(l.max) {
			l.err = l.tooLarge(int64(min(lower, uint64(1<<63-1))))
			return Failed[Frame](l.err)
		}
	}
	p := l.inner.PollFrame(w)
	if f, ok := p.Value(); ok {
		l.read += int64(f.Len())
		if l.read > l.max {
			l.err = l.tooLarge(l.read)
			return Failed[Frame](l.err)
		}
	}
	return p
}

func (l *limitBody) IsEndStream() bool {
	return l.err == nil && l.inner.IsEndStream()
}

func (l *limitBody) SizeHint() SizeHint {
	if l.err != nil {
		return Exact(0)
	}
	h := l.inner.SizeHint()
	remaining := subSat(uint64(l.max), uint64(l.read))
	if upper, ok := h.Upper(); !ok || upper > remaining {
		return h.WithUpper(remaining)
	}
	return h
}

func (l *limitBody) Close() error {
	return l.inner.Close()
}

var _ io.Closer = (*limitBody)(nil)
