package logger

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error returns the error under "error", or an empty Attr for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors", keyed by position.
func Errors(errs ...error) slog.Attr {
	var as []slog.Attr
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Latency is Duration under the key used for request logs.
func Latency(d time.Duration) slog.Attr {
	return slog.Duration("latency", d)
}

// RequestID creates an attribute for HTTP request IDs.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Method(method string) slog.Attr {
	return slog.String("method", method)
}

func Path(path string) slog.Attr {
	return slog.String("path", path)
}

func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Bytes records a payload size.
func Bytes(n int64) slog.Attr {
	return slog.Int64("bytes", n)
}

// BytesIn records the number of request body bytes consumed.
func BytesIn(n int64) slog.Attr {
	return slog.Int64("bytes_in", n)
}

// BytesOut records the number of response body bytes written.
func BytesOut(n int64) slog.Attr {
	return slog.Int64("bytes_out", n)
}

// BodyKind records the variant of a body. It takes any fmt.Stringer so the
// logger stays independent of the body package.
func BodyKind(k fmt.Stringer) slog.Attr {
	if k == nil {
		return slog.Attr{}
	}
	return slog.String("body_kind", k.String())
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Key creates a generic key-value attribute, empty for nil values.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}
