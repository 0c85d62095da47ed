package body

import "math"

// SizeHint is a best-effort bound on the bytes a body has left to produce.
// It is meant for buffer pre-sizing and Content-Length decisions, never for
// correctness.
type SizeHint struct {
	lower    uint64
	upper    uint64
	hasUpper bool
}

// Exact returns a hint with equal lower and upper bounds.
func Exact(n uint64) SizeHint {
	return SizeHint{lower: n, upper: n, hasUpper: true}
}

// UnknownSize returns the hint for a body with no known bounds.
func UnknownSize() SizeHint {
	return SizeHint{}
}

// Lower returns the lower bound.
func (h SizeHint) Lower() uint64 { return h.lower }

// Upper returns the upper bound, if any.
func (h SizeHint) Upper() (uint64, bool) { return h.upper, h.hasUpper }

// Exact returns the size when both bounds agree.
func (h SizeHint) Exact() (uint64, bool) {
	if h.hasUpper && h.lower == h.upper {
		return h.lower, true
	}
	return 0, false
}

// WithLower returns a copy with the lower bound set. The upper bound is
// raised if it would fall below the new lower bound.
func (h SizeHint) WithLower(n uint64) SizeHint {
	h.lower = n
	if h.hasUpper && h.upper < n {
		h.upper = n
	}
	return h
}

// WithUpper returns a copy with the upper bound set. The lower bound is
// lowered if it would exceed the new upper bound.
func (h SizeHint) WithUpper(n uint64) SizeHint {
	h.upper = n
	h.hasUpper = true
	if h.lower > n {
		h.lower = n
	}
	return h
}

// Ints converts the hint to the int range used by byte-stream consumers,
// saturating at math.MaxInt instead of overflowing.
func (h SizeHint) Ints() (lower int, upper int, ok bool) {
	lower = saturate(h.lower)
	if h.hasUpper {
		return lower, saturate(h.upper), true
	}
	return lower, 0, false
}

func saturate(n uint64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// consumed returns the hint left after n bytes have been produced. Bounds
// stop at zero.
func (h SizeHint) consumed(n uint64) SizeHint {
	h.lower = subSat(h.lower, n)
	if h.hasUpper {
		h.upper = subSat(h.upper, n)
	}
	return h
}

func subSat(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
