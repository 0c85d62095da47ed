package body

import (
	"errors"
	"io"
	"sync"
)

// produceFunc blocks until the next chunk is available. It returns io.EOF
// once the source is exhausted; a chunk and io.EOF may arrive together.
// stop is closed when the consumer abandons the body.
type produceFunc func(stop <-chan struct{}) ([]byte, error)

// pump turns a blocking producer into a pollable source.
//
// The producer goroutine starts on the first poll and holds at most one
// chunk: after handing a chunk over it waits until the consumer takes it
// before producing the next one.
type pump struct {
	produce produceFunc
	release func() error
	// abortable is set when release (or stop) is guaranteed to unblock
	// produce, so close can wait for the producer to exit.
	abortable bool
	// interrupt, when set, makes a non-abortable source return promptly
	// from produce and release. A non-nil error means it had no effect.
	interrupt func() error

	mu      sync.Mutex
	started bool
	closed  bool
	chunk   []byte
	full    bool
	err     error
	waker   Waker

	taken  chan struct{}
	stop   chan struct{}
	exited chan struct{}
}

func newPump(produce produceFunc, release func() error, abortable bool) *pump {
	return &pump{
		produce:   produce,
		release:   release,
		abortable: abortable,
		taken:     make(chan struct{}, 1),
		stop:      make(chan struct{}),
		exited:    make(chan struct{}),
	}
}

// poll returns the next chunk, io.EOF wrapped in Done, the producer error, or
// Pending after registering w.
func (p *pump) poll(w Waker) Poll[[]byte] {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return Failed[[]byte](ErrBodyClosed)
	}
	if !p.started {
		p.started = true
		go p.run()
	}
	if p.full {
		chunk := p.chunk
		p.chunk, p.full = nil, false
		p.mu.Unlock()
		select {
		case p.taken <- struct{}{}:
		default:
		}
		return Ready(chunk)
	}
	if p.err != nil {
		err := p.err
		p.mu.Unlock()
		if errors.Is(err, io.EOF) {
			return Done[[]byte]()
		}
		return Failed[[]byte](err)
	}
	p.waker = w
	p.mu.Unlock()
	return Pending[[]byte]()
}

// finished reports whether the producer has terminated and nothing is left
// to hand over.
func (p *pump) finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.full && errors.Is(p.err, io.EOF)
}

func (p *pump) run() {
	defer close(p.exited)
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		chunk, err := p.produce(p.stop)

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		if len(chunk) > 0 {
			p.chunk, p.full = chunk, true
		}
		if err != nil {
			p.err = err
		}
		w := p.waker
		p.waker = nil
		hasChunk := p.full
		p.mu.Unlock()

		if w != nil {
			w.Wake()
		}
		if err != nil {
			return
		}
		if !hasChunk {
			continue
		}
		select {
		case <-p.taken:
		case <-p.stop:
			return
		}
	}
}

// close stops the producer and releases the underlying resource.
//
// A source that is not abortable and has not terminated may block in release
// until its peer acts. It is interrupted first when an interrupt is set;
// failing that, release runs in the background and close returns at once.
// In every other case release runs before close returns and close waits for
// the producer goroutine to exit.
func (p *pump) close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started, finished := p.started, p.err != nil
	p.chunk, p.full, p.waker = nil, false, nil
	p.mu.Unlock()

	close(p.stop)
	unblocked := p.abortable || finished
	if !unblocked && p.interrupt != nil && p.interrupt() == nil {
		unblocked = true
	}

	if !unblocked {
		if p.release != nil {
			go func() { _ = p.release() }()
		}
		return nil
	}

	var err error
	if p.release != nil {
		err = p.release()
	}
	if started {
		<-p.exited
	}
	return err
}
