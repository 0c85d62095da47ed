package body

import "io"

// Box collapses any body implementation into a Boxed body.
//
// An already boxed *Body is returned unchanged, so middleware may re-box
// bodies repeatedly without stacking wrappers. Any other *Body is wrapped as
// is, since it already reports errors through *Error. Foreign
// implementations get their failures mapped to ErrExternal.
func Box(impl Impl) *Body {
	switch v := impl.(type) {
	case nil:
		return Empty()
	case *Body:
		if v == nil {
			return Empty()
		}
		if v.kind == KindBoxed {
			return v
		}
		return &Body{kind: KindBoxed, boxed: v}
	default:
		return &Body{kind: KindBoxed, boxed: &externalBody{inner: impl}}
	}
}

// IsBoxed reports whether b is already in its boxed representation.
func IsBoxed(b *Body) bool {
	return b != nil && b.kind == KindBoxed
}

// externalBody maps the errors of a foreign implementation into *Error and
// remembers the first failure so it is reported again on later polls.
type externalBody struct {
	inner Impl
	err   error
}

func (e *externalBody) PollFrame(w Waker) Poll[Frame] {
	if e.err != nil {
		return Failed[Frame](e.err)
	}
	p := e.inner.PollFrame(w)
	if p.IsFailed() {
		e.err = ExternalError(p.Err())
		return Failed[Frame](e.err)
	}
	return p
}

func (e *externalBody) IsEndStream() bool {
	return e.err == nil && e.inner.IsEndStream()
}

func (e *externalBody) SizeHint() SizeHint {
	return e.inner.SizeHint()
}

func (e *externalBody) Close() error {
	if c, ok := e.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
