package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/httpbody/core/body"
)

// statusCode is implemented by errors that carry their own HTTP status.
type statusCode interface {
	StatusCode() int
}

// StatusFor returns the HTTP status an error should be answered with.
//
// Body failures map by kind: an oversized payload is 413, a broken request
// connection is 400, an encoding failure is 500 and a failing upstream
// source is 502. A cancelled request context is 408.
func StatusFor(err error) int {
	var sc statusCode
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &sc):
		return sc.StatusCode()
	case errors.Is(err, body.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, body.ErrConnection):
		return http.StatusBadRequest
	case errors.Is(err, body.ErrSerialization):
		return http.StatusInternalServerError
	case errors.Is(err, body.ErrSource), errors.Is(err, body.ErrExternal):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	base, ok := httpErrorsByStatus[StatusFor(err)]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}

// ErrorHandler writes errors as plain text.
func ErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := convertToHTTPError(err)
	render(w, r, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler writes errors as JSON objects.
func JSONErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := convertToHTTPError(err)
	render(w, r, JSONWithStatus(httpErr, httpErr.Status))
}

func render(w http.ResponseWriter, r *http.Request, resp func(http.ResponseWriter, *http.Request) error) {
	if err := resp(w, r); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
