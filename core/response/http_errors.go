package response

import "net/http"

// HTTPError is a structured error response.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError returns a 500 error with a custom message.
func NewHTTPError(message string) HTTPError {
	return ErrInternalServerError.WithMessage(message)
}

func (e HTTPError) Error() string {
	return e.Message
}

// Is matches errors with the same status and code, ignoring message and
// details.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Status == e.Status && t.Code == e.Code
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy of the error with err recorded as the cause.
// The details map is copied so the predefined errors stay untouched.
func (e HTTPError) WithError(err error) HTTPError {
	if err == nil {
		return e
	}
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

func newStatusError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

// Predefined errors for the statuses body handling can produce.
var (
	ErrBadRequest            = newStatusError(http.StatusBadRequest, "bad_request")
	ErrNotFound              = newStatusError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed      = newStatusError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrRequestTimeout        = newStatusError(http.StatusRequestTimeout, "request_timeout")
	ErrLengthRequired        = newStatusError(http.StatusLengthRequired, "length_required")
	ErrRequestEntityTooLarge = newStatusError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnsupportedMediaType  = newStatusError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrUnprocessableEntity   = newStatusError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrInternalServerError   = newStatusError(http.StatusInternalServerError, "internal_server_error")
	ErrBadGateway            = newStatusError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable    = newStatusError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout        = newStatusError(http.StatusGatewayTimeout, "gateway_timeout")
)

var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusRequestTimeout:        ErrRequestTimeout,
	http.StatusLengthRequired:        ErrLengthRequired,
	http.StatusRequestEntityTooLarge: ErrRequestEntityTooLarge,
	http.StatusUnsupportedMediaType:  ErrUnsupportedMediaType,
	http.StatusUnprocessableEntity:   ErrUnprocessableEntity,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusBadGateway:            ErrBadGateway,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
	http.StatusGatewayTimeout:        ErrGatewayTimeout,
}
