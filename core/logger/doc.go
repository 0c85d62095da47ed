// Package logger builds slog loggers for the body server and provides the
// attribute helpers used across the module.
//
// Loggers are created with functional options:
//
//	log := logger.New(
//		logger.WithProduction("bodyecho"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("request body received",
//		logger.RequestID(id),
//		logger.BodyKind(b.Kind()),
//		logger.Bytes(n),
//	)
//
// Helpers that take an error or identifier return an empty slog.Attr for
// zero values, so they can be passed unconditionally.
//
// Request-scoped attributes are injected from the context through
// extractors registered with WithContextExtractors.
package logger
