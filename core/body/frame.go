package body

import "net/http"

// Frame is one unit of a body stream: a data chunk or a trailers block.
type Frame struct {
	data     []byte
	trailers http.Header
}

// DataFrame returns a frame carrying payload bytes.
// The frame shares p; callers must not modify it afterwards.
func DataFrame(p []byte) Frame {
	return Frame{data: p}
}

// TrailersFrame returns a frame carrying trailer fields.
func TrailersFrame(h http.Header) Frame {
	if h == nil {
		h = http.Header{}
	}
	return Frame{trailers: h}
}

// IsData reports whether f carries payload bytes.
func (f Frame) IsData() bool { return f.trailers == nil }

// IsTrailers reports whether f carries trailer fields.
func (f Frame) IsTrailers() bool { return f.trailers != nil }

// Data returns the payload of a data frame.
func (f Frame) Data() ([]byte, bool) {
	if f.trailers != nil {
		return nil, false
	}
	return f.data, true
}

// Trailers returns the fields of a trailers frame.
func (f Frame) Trailers() (http.Header, bool) {
	return f.trailers, f.trailers != nil
}

// Len returns the payload length; trailers count as zero.
func (f Frame) Len() int {
	if f.trailers != nil {
		return 0
	}
	return len(f.data)
}
