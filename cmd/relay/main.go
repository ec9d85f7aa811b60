package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/handler"
	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/messaging"
	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/outbox"
	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/repository"
	"github.com/AchilleasB/classbank/ledger-service/internal/config"
	"github.com/AchilleasB/classbank/ledger-service/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadRelayConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "relay config: %v\n", err)
		os.Exit(1)
	}
	log := logging.Init("outbox-relay", cfg.LogFile, cfg.LogLevel)
	log.Info("starting outbox relay service")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connection initialized - circuit breaker will validate on first operation")

	store, err := openOutboxStore(context.Background(), db, log)
	if err != nil {
		log.Error("failed to ensure outbox schema", "error", err)
		os.Exit(1)
	}

	broker, err := messaging.NewRabbitMQBroker(cfg.Broker, logging.New("publisher"))
	if err != nil {
		log.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer broker.Close()
	log.Info("connected to RabbitMQ", "queue", cfg.Broker.Queue)

	listener, err := repository.NewOutboxListener(cfg.DatabaseURL, logging.New("outbox-listener"))
	if err != nil {
		log.Error("failed to listen for outbox notifications", "error", err)
		os.Exit(1)
	}
	defer listener.Close()

	relayWorker := outbox.NewRelay(store, broker, outbox.Options{
		Wake:         listener.Wake(),
		PollInterval: cfg.PollInterval,
		Logger:       logging.New("outbox-relay"),
	})

	// Start health check HTTP server
	readiness := handler.NewHealthHandler(cfg.Version, logging.New("health"),
		handler.DependencyCheck{Name: "postgres", Check: store.Ping},
		handler.DependencyCheck{Name: "rabbitmq", Check: func(context.Context) error {
			if !broker.Connected() {
				return errors.New("connection closed")
			}
			return nil
		}},
		handler.DependencyCheck{Name: "relay", Check: func(context.Context) error {
			if !relayWorker.IsReady() {
				return errors.New("no successful batch recently")
			}
			return nil
		}},
	)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK

		if !relayWorker.IsHealthy() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "outbox-relay",
		})
	})
	healthMux.HandleFunc("/health/live", readiness.Live)
	healthMux.HandleFunc("/health/ready", readiness.Ready)

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting health check server", "port", cfg.HealthPort)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go listener.Run(ctx)

	// Channel to capture fatal errors from relay worker
	errChan := make(chan error, 1)

	go func() {
		log.Info("starting event processing worker")
		if err := relayWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal or fatal error
	select {
	case sig := <-sigChan:
		log.Info("received signal, initiating shutdown", "signal", sig.String())
	case err := <-errChan:
		log.Error("fatal error, shutting down", "error", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("error shutting down health server", "error", err)
	}

	log.Info("shutdown complete")
}
