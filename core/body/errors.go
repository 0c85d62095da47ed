package body

import (
	"errors"
	"fmt"
)

// ErrorKind classifies where a body failure originated.
type ErrorKind uint8

const (
	// KindSerialization: encoding a value into a payload failed.
	KindSerialization ErrorKind = iota + 1
	// KindSource: a wrapped stream reported a failure mid-stream.
	KindSource
	// KindConnection: the incoming connection failed.
	KindConnection
	// KindExternal: a foreign body implementation failed.
	KindExternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindSerialization:
		return "serialization"
	case KindSource:
		return "source"
	case KindConnection:
		return "connection"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by errors.Is against any *Error of the same kind.
var (
	ErrSerialization = errors.New("body: serialization failed")
	ErrSource        = errors.New("body: source failed")
	ErrConnection    = errors.New("body: connection failed")
	ErrExternal      = errors.New("body: external body failed")

	ErrBodyTooLarge   = errors.New("body: size exceeds limit")
	ErrBodyClosed     = errors.New("body: polled after close")
	ErrLengthMismatch = errors.New("body: received more bytes than announced")
)

// Error is the single error type every body variant reports through.
// Err keeps the original failure so errors.As can still reach it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("body: %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("body: %s %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSerialization:
		return e.Kind == KindSerialization
	case ErrSource:
		return e.Kind == KindSource
	case ErrConnection:
		return e.Kind == KindConnection
	case ErrExternal:
		return e.Kind == KindExternal
	}
	return false
}

// newError wraps err unless it already is a body error.
func newError(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// SourceError wraps err as a stream failure. It is the default mapper used
// by FromStream, FromReader and FromChannel.
func SourceError(err error) error { return newError(KindSource, "poll", err) }

// ExternalError wraps err as a failure of a foreign body implementation.
func ExternalError(err error) error { return newError(KindExternal, "poll", err) }

// ConnectionError wraps err as a failure of the incoming connection.
func ConnectionError(err error) error { return newError(KindConnection, "receive", err) }
