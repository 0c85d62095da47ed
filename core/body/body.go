package body

import (
	"io"
	"unsafe"
)

// Kind identifies which of the four payload representations a Body holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindFull
	KindBoxed
	KindIncoming
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindFull:
		return "full"
	case KindBoxed:
		return "boxed"
	case KindIncoming:
		return "incoming"
	default:
		return "unknown"
	}
}

// Impl is the capability set every body implementation provides.
// *Body satisfies it, so bodies compose with each other.
type Impl interface {
	// PollFrame returns the next frame without blocking. When it returns
	// Pending, w is woken once progress is possible.
	PollFrame(w Waker) Poll[Frame]
	// IsEndStream reports whether the body is known to be exhausted.
	IsEndStream() bool
	// SizeHint reports the expected number of remaining bytes.
	SizeHint() SizeHint
}

// Body is the payload of an HTTP request or response.
//
// A Body keeps the shape it was built with; only the data it still has to
// produce shrinks as it is polled. It must be polled by one goroutine at a
// time but may move between goroutines between polls.
type Body struct {
	kind     Kind
	full     fullBody
	boxed    Impl
	incoming *incomingBody
	closed   bool
}

// Empty returns a body with no payload.
func Empty() *Body {
	return &Body{kind: KindEmpty}
}

// FromBytes returns a single-frame body that takes ownership of p.
// p is not copied and must not be modified afterwards.
func FromBytes(p []byte) *Body {
	return &Body{kind: KindFull, full: fullBody{data: p}}
}

// FromStatic returns a single-frame body over a slice that lives for the
// whole program, such as a package-level literal. p is never copied.
func FromStatic(p []byte) *Body {
	return FromBytes(p)
}

// FromString returns a single-frame body holding a copy of s.
func FromString(s string) *Body {
	return FromBytes([]byte(s))
}

// FromStaticString returns a single-frame body that shares the bytes of s
// without copying. Go strings are immutable, so the shared bytes are never
// written to.
func FromStaticString(s string) *Body {
	if s == "" {
		return FromBytes(nil)
	}
	return FromBytes(unsafe.Slice(unsafe.StringData(s), len(s)))
}

// Kind reports the payload representation.
func (b *Body) Kind() Kind {
	return b.kind
}

// PollFrame returns the next frame of the body. It never blocks.
func (b *Body) PollFrame(w Waker) Poll[Frame] {
	if b.closed {
		return Failed[Frame](&Error{Kind: KindSource, Op: "poll", Err: ErrBodyClosed})
	}
	switch b.kind {
	case KindFull:
		return b.full.pollFrame()
	case KindBoxed:
		return b.boxed.PollFrame(w)
	case KindIncoming:
		return b.incoming.pollFrame(w)
	default:
		return Done[Frame]()
	}
}

// IsEndStream reports whether the body is known to be exhausted without
// polling it. Boxed bodies defer to the wrapped implementation.
func (b *Body) IsEndStream() bool {
	if b.closed {
		return true
	}
	switch b.kind {
	case KindFull:
		return b.full.isEndStream()
	case KindBoxed:
		return b.boxed.IsEndStream()
	case KindIncoming:
		return b.incoming.isEndStream()
	default:
		return true
	}
}

// SizeHint reports the expected number of remaining bytes. Boxed bodies
// defer to the wrapped implementation; streams report an unknown size unless
// built WithSizeHint.
func (b *Body) SizeHint() SizeHint {
	if b.closed {
		return Exact(0)
	}
	switch b.kind {
	case KindFull:
		return b.full.sizeHint()
	case KindBoxed:
		return b.boxed.SizeHint()
	case KindIncoming:
		return b.incoming.sizeHint()
	default:
		return Exact(0)
	}
}

// Close releases whatever the body holds: it drops a full buffer, closes a
// boxed implementation that implements io.Closer, and aborts an incoming
// receive. Close is idempotent; later polls fail with ErrBodyClosed.
func (b *Body) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	switch b.kind {
	case KindFull:
		b.full = fullBody{}
	case KindBoxed:
		inner := b.boxed
		b.boxed = nil
		if c, ok := inner.(io.Closer); ok {
			return c.Close()
		}
	case KindIncoming:
		return b.incoming.close()
	}
	return nil
}

// fullBody yields its buffer as one data frame.
type fullBody struct {
	data []byte
	done bool
}

func (f *fullBody) pollFrame() Poll[Frame] {
	if f.done || len(f.data) == 0 {
		f.done = true
		f.data = nil
		return Done[Frame]()
	}
	data := f.data
	f.data, f.done = nil, true
	return Ready(DataFrame(data))
}

func (f *fullBody) isEndStream() bool {
	return f.done || len(f.data) == 0
}

func (f *fullBody) sizeHint() SizeHint {
	if f.done {
		return Exact(0)
	}
	return Exact(uint64(len(f.data)))
}
