package body

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// newParker returns a waker that signals the returned channel. Signals
// coalesce, so a wake that arrives before the caller parks is not lost.
func newParker() (Waker, <-chan struct{}) {
	ch := make(chan struct{}, 1)
	return WakerFunc(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}), ch
}

// Frame blocks until the next frame is available. It returns io.EOF once the
// body is exhausted and ctx.Err() if ctx ends first.
func (b *Body) Frame(ctx context.Context) (Frame, error) {
	w, wake := newParker()
	for {
		p := b.PollFrame(w)
		switch {
		case p.IsReady():
			f, _ := p.Value()
			return f, nil
		case p.IsDone():
			return Frame{}, io.EOF
		case p.IsFailed():
			return Frame{}, p.Err()
		}
		select {
		case <-wake:
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		}
	}
}

// Collected is a fully buffered body.
type Collected struct {
	chunks   [][]byte
	size     int
	trailers http.Header
}

// Bytes returns the payload as one slice. A single chunk is returned without
// copying.
func (c *Collected) Bytes() []byte {
	switch len(c.chunks) {
	case 0:
		return nil
	case 1:
		return c.chunks[0]
	}
	return bytes.Join(c.chunks, nil)
}

// Chunks returns the payload in the order it was received.
func (c *Collected) Chunks() [][]byte { return c.chunks }

// Len returns the total payload size.
func (c *Collected) Len() int { return c.size }

// Trailers returns the merged trailer fields, or nil if there were none.
func (c *Collected) Trailers() http.Header { return c.trailers }

// Body returns a body replaying the collected payload.
func (c *Collected) Body() *Body { return FromBytes(c.Bytes()) }

// Collect drains b into memory. On failure the frames collected so far are
// returned along with the error.
func (b *Body) Collect(ctx context.Context) (*Collected, error) {
	c := &Collected{}
	for {
		f, err := b.Frame(ctx)
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return c, err
		}
		if data, ok := f.Data(); ok {
			if len(data) > 0 {
				c.chunks = append(c.chunks, data)
				c.size += len(data)
			}
			continue
		}
		h, _ := f.Trailers()
		if c.trailers == nil {
			c.trailers = make(http.Header, len(h))
		}
		for k, vv := range h {
			c.trailers[k] = append(c.trailers[k], vv...)
		}
	}
}
