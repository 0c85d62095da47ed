// Package handler defines the function types shared by the server and the
// response helpers.
//
// A Func receives the request together with its payload as a *body.Body and
// returns a Response that renders the reply:
//
//	func echo(r *http.Request, in *body.Body) handler.Response {
//		return response.Body(body.Box(in), r.Header.Get("Content-Type"))
//	}
//
// Middlewares wrap a Func and compose with Chain:
//
//	h := handler.Chain(echo, requireJSON, limitBody(1<<20))
package handler
