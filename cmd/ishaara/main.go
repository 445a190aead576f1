package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayusman/ishaara/internal/app"
	"github.com/ayusman/ishaara/internal/config"
	"github.com/ayusman/ishaara/internal/metrics"
	"github.com/ayusman/ishaara/internal/server"
	"github.com/mama165/sdk-go/logs"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer func() {
		log.Info("Releasing runtime...")
		if err := rt.Close(); err != nil {
			log.Warn("Error releasing runtime", "error", err)
		}
	}()

	srvCfg := server.Config{
		Translator:     rt.Recognizer(),
		Phrases:        rt.Phrases(),
		Decode:         cfg.DecodeOptions(),
		MaxUploadBytes: cfg.MaxUploadBytes,
		WSReadLimit:    cfg.WSReadLimit,
		AllowedOrigins: cfg.Origins(),
		Version:        version,
		Metrics:        metrics.New(),
		Logger:         log,
	}
	// A nil *Classifier must not become a non-nil interface.
	if letters := rt.Letters(); letters != nil {
		srvCfg.Letters = letters
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(srvCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", httpServer.Addr, "version", version, "origins", srvCfg.AllowedOrigins)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped cleanly")
	return nil
}
