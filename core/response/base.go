package response

import (
	"net/http"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
)

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return BodyWithStatus(body.FromString(content), ContentTypeText, status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return BodyWithStatus(body.FromString(content), ContentTypeHTML, http.StatusOK)
}

// Bytes creates a response with custom content type and 200 OK status.
// content is not copied.
func Bytes(content []byte, contentType string) handler.Response {
	return BytesWithStatus(content, contentType, http.StatusOK)
}

// BytesWithStatus creates a response with custom content type and status code.
func BytesWithStatus(content []byte, contentType string, status int) handler.Response {
	return BodyWithStatus(body.FromBytes(content), contentType, status)
}

// NoContent creates a 204 No Content response.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Status creates an empty response with the specified status code.
func Status(code int) handler.Response {
	return BodyWithStatus(body.Empty(), "", code)
}

// Error returns a response that propagates err to the error handler.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
