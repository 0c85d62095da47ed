// Command bodyecho serves the body demo routes: request echo, JSON, a
// ticking stream with trailers and, when S3 is configured, object
// upload and download.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/httpbody/app/bodyecho"
	"github.com/dmitrymomot/httpbody/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bodyecho.NewApp(ctx)
	if err != nil {
		slog.Error("failed to initialize", logger.Error(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
