// Package response renders bodies onto an http.ResponseWriter.
//
// Every helper returns a handler.Response. The helpers build a *body.Body
// and hand it to Body, which drives the body frame by frame: data frames are
// written and flushed, a trailers frame becomes HTTP trailers, and an exact
// size hint becomes the Content-Length header.
//
//	func download(r *http.Request, in *body.Body) handler.Response {
//		return response.File("/var/data/report.pdf")
//	}
//
//	func echo(r *http.Request, in *body.Body) handler.Response {
//		return response.Body(body.Box(in), r.Header.Get("Content-Type"))
//	}
//
// # Streaming
//
// Stream, StreamJSON and SSE run their producers in a goroutine feeding a
// channel or pipe body, so a slow client applies backpressure and a closed
// response stops the producer.
//
// # Errors
//
// A body that fails before its first frame is returned as an error without
// writing anything. ErrorHandler and JSONErrorHandler then turn it into a
// response through StatusFor:
//
//	body.ErrBodyTooLarge   413 Request Entity Too Large
//	body.ErrConnection     400 Bad Request
//	body.ErrSerialization  500 Internal Server Error
//	body.ErrSource         502 Bad Gateway
//	body.ErrExternal       502 Bad Gateway
//
// Errors implementing StatusCode() int, including HTTPError, keep their own
// status.
package response
