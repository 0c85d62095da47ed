// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependencies are available
//   - NoContent: Returns 204 for minimal overhead
//
// Usage:
//
//	mux.Handle("GET /health/live", srv.Handler(health.Liveness))
//	mux.Handle("GET /health/ready", srv.Handler(health.Readiness(
//		logger,
//		storage.Ping,
//	)))
//	mux.Handle("GET /ping", srv.Handler(health.NoContent))
//
// Dependency checks must follow func(context.Context) error signature:
//
//	func checkDB(ctx context.Context) error {
//		return db.PingContext(ctx)
//	}
package health
