package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/farellandr/eventgate/config"
	"github.com/farellandr/eventgate/internal/server"
	"github.com/farellandr/eventgate/internal/telemetry"
	"github.com/joho/godotenv"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if err := godotenv.Load(".env"); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Fatalf("Error loading .env file: %v", err)
		}
		logger.Printf("no .env file, using process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if !cfg.AuthEnabled() {
		logger.Printf("WARNING: JWT_SECRET is empty, protected routes accept anonymous requests")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Printf("tracing shutdown: %v", err)
		}
	}()

	if err := server.Start(ctx, cfg, logger); err != nil {
		logger.Printf("Server failed: %v", err)
		stop()
		os.Exit(1)
	}
}
