package body

// Waker is the continuation handle passed into every poll call.
// A source that returns Pending must call Wake exactly when progress becomes
// possible (new data, termination, or failure). Wake may be called from any
// goroutine and may be called spuriously.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to the Waker interface.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// noopWaker is used when a caller only wants to probe readiness.
type noopWaker struct{}

func (noopWaker) Wake() {}

// NoopWaker returns a Waker that ignores wake-ups.
func NoopWaker() Waker { return noopWaker{} }

type pollState uint8

const (
	statePending pollState = iota
	stateReady
	stateDone
	stateFailed
)

// Poll is the outcome of a single non-blocking poll.
// The zero value is Pending.
type Poll[T any] struct {
	state pollState
	value T
	err   error
}

// Ready reports one unit of progress.
func Ready[T any](v T) Poll[T] { return Poll[T]{state: stateReady, value: v} }

// Pending reports that no progress is possible yet. The waker passed to the
// poll call will be woken once it is.
func Pending[T any]() Poll[T] { return Poll[T]{} }

// Done reports that the source is exhausted.
func Done[T any]() Poll[T] { return Poll[T]{state: stateDone} }

// Failed reports a stream-level failure.
func Failed[T any](err error) Poll[T] { return Poll[T]{state: stateFailed, err: err} }

// IsPending reports whether the poll made no progress.
func (p Poll[T]) IsPending() bool { return p.state == statePending }

// IsReady reports whether the poll produced a value.
func (p Poll[T]) IsReady() bool { return p.state == stateReady }

// IsDone reports whether the source is exhausted.
func (p Poll[T]) IsDone() bool { return p.state == stateDone }

// IsFailed reports whether the poll failed.
func (p Poll[T]) IsFailed() bool { return p.state == stateFailed }

// Value returns the produced value and whether there was one.
func (p Poll[T]) Value() (T, bool) { return p.value, p.state == stateReady }

// Err returns the failure, if any.
func (p Poll[T]) Err() error { return p.err }

// mapPoll converts the value of a ready poll, keeping every other state.
func mapPoll[T, U any](p Poll[T], fn func(T) U) Poll[U] {
	switch p.state {
	case stateReady:
		return Ready(fn(p.value))
	case stateDone:
		return Done[U]()
	case stateFailed:
		return Failed[U](p.err)
	default:
		return Pending[U]()
	}
}
