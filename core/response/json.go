package response

import (
	"net/http"

	"github.com/dmitrymomot/httpbody/core/body"
	"github.com/dmitrymomot/httpbody/core/handler"
)

// JSON creates an application/json response with 200 OK status.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with custom status
// code. A zero status means 204 for nil data and 200 otherwise. Encoding
// failures surface as serialization errors before anything is written.
func JSONWithStatus(v any, status int) handler.Response {
	if status == 0 {
		if v == nil {
			return NoContent()
		}
		status = http.StatusOK
	}
	if !bodyAllowed(status) {
		return Status(status)
	}
	b, err := body.FromJSON(v)
	if err != nil {
		return Error(err)
	}
	return BodyWithStatus(b, ContentTypeJSON, status)
}

// JSONPretty is JSON with two-space indentation.
func JSONPretty(v any) handler.Response {
	b, err := body.FromJSONPretty(v)
	if err != nil {
		return Error(err)
	}
	return Body(b, ContentTypeJSON)
}

// Msgpack creates an application/msgpack response with 200 OK status.
func Msgpack(v any) handler.Response {
	b, err := body.FromMsgpack(v)
	if err != nil {
		return Error(err)
	}
	return Body(b, ContentTypeMsgpack)
}
