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

	"github.com/joho/godotenv"

	"github.com/AchilleasB/classbank/ledger-service/internal/config"
	"github.com/AchilleasB/classbank/ledger-service/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.Init("ledger-api", cfg.LogFile, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, cleanup, err := InitWithConfig(ctx, cfg)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	errChan := make(chan error, 2)

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	relayDone := make(chan struct{})
	if app.Relay != nil {
		go func() {
			defer close(relayDone)
			if err := app.Relay.Start(relayCtx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("outbox relay: %w", err)
			}
		}()
	} else {
		close(relayDone)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("starting server", "port", cfg.Port, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-errChan:
		log.Error("fatal error, shutting down", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("error shutting down server", "error", err)
	}
	stopRelay()
	<-relayDone

	if err := app.Store.Flush(shutdownCtx); err != nil {
		log.Error("final flush failed", "error", err)
	}
	log.Info("shutdown complete")
}
