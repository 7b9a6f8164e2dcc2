package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/authform/internal/app"
	"github.com/nfrund/authform/internal/config"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		// slog is not configured until the container builds the logger.
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg).Run(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
