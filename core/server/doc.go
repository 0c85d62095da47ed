// Package server runs an http.Server with graceful shutdown and adapts body
// handlers to net/http.
//
// # Basic Usage
//
//	srv := server.New(":8080",
//		server.WithLogger(log),
//		server.WithMaxBodyBytes(1<<20),
//	)
//
//	mux := http.NewServeMux()
//	mux.Handle("POST /echo", srv.Handler(func(r *http.Request, in *body.Body) handler.Response {
//		return response.Body(body.Box(in), r.Header.Get("Content-Type"))
//	}))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//	if err := g.Wait(); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// # Request Bodies
//
// Handler exposes the request payload as an incoming body capped at
// WithMaxBodyBytes. A Content-Length above the cap fails on the first poll;
// a chunked body fails as soon as it crosses the cap. Either way the error
// matches body.ErrBodyTooLarge and renders as 413.
//
// The incoming body is closed after the response has been rendered, which
// stops any receive still in flight.
//
// # Configuration
//
// Config is loadable with the config package:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// Setting both SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE enables HTTPS
// with TLS 1.2 as the minimum version.
package server
