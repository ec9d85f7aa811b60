package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/cache"
	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/handler"
	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/messaging"
	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/metrics"
	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/middleware"
	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/outbox"
	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/repository"
	"github.com/AchilleasB/classbank/ledger-service/internal/config"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/services"
	"github.com/AchilleasB/classbank/ledger-service/internal/logging"
)

type App struct {
	Handler http.Handler
	Store   *services.Store
	// Relay is set only when the bolt outbox is relayed in-process.
	Relay *outbox.Relay
}

type storage struct {
	repo   ports.SnapshotRepository
	ping   func(context.Context) error
	outbox ports.OutboxStore
	wake   <-chan struct{}
	close  func() error
}

// openStorage opens the configured snapshot repository. The bolt file also
// serves as the outbox; a Postgres outbox is drained by cmd/relay.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(16)

		repo := repository.NewPostgresRepository(db, config.NewCircuitBreaker(config.BreakerPostgres, log))
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return &storage{repo: repo, ping: repo.Ping, close: db.Close}, nil

	default:
		repo, err := repository.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return &storage{repo: repo, ping: repo.Ping, outbox: repo, wake: repo.Wake(), close: repo.Close}, nil
	}
}

// InitWithConfig wires every adapter around the ledger store. The returned
// cleanup releases connections in reverse order.
func InitWithConfig(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	log := logging.New("api")
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("cleanup failed", "error", err)
			}
		}
	}

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, st.close)
	log.Info("storage ready", "driver", cfg.StorageDriver)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	closers = append(closers, rdb.Close)
	if err := rdb.Ping(ctx).Err(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	log.Info("connected to redis", "address", cfg.RedisAddress)
	tokens := cache.NewRedisTokenStore(rdb, config.NewCircuitBreaker(config.BreakerRedis, log))

	m := metrics.New()

	gateway := services.NewSnapshotGateway(
		st.repo,
		domain.User{Username: cfg.AdminUsername, Password: cfg.AdminPassword, Role: domain.RoleAdmin},
		domain.User{Username: cfg.DeveloperUsername, Password: cfg.DeveloperPassword, Role: domain.RoleDeveloper},
		nil,
		logging.New("gateway"),
	)
	store, err := services.OpenStore(ctx, gateway, services.StoreOptions{
		Location:               cfg.Location(),
		StartingBalance:        cfg.InitialBalance(),
		StrictOrderTransitions: cfg.StrictOrderTransitions,
		Recorder:               m,
		Logger:                 logging.New("store"),
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load economy: %w", err)
	}

	checks := []handler.DependencyCheck{
		{Name: "storage", Check: st.ping},
		{Name: "redis", Check: tokens.Ping},
	}

	var relay *outbox.Relay
	if st.outbox != nil && cfg.Broker.Enabled() {
		broker, err := messaging.NewRabbitMQBroker(cfg.Broker, logging.New("publisher"))
		if err != nil {
			// Events stay in the outbox until a later start can reach the broker.
			log.Warn("rabbitmq unavailable, order events will not be relayed", "error", err)
		} else {
			closers = append(closers, broker.Close)
			relay = outbox.NewRelay(st.outbox, broker, outbox.Options{
				Wake:   st.wake,
				Logger: logging.New("outbox-relay"),
			})
			checks = append(checks, handler.DependencyCheck{Name: "rabbitmq", Check: func(context.Context) error {
				if !broker.Connected() {
					return errors.New("connection closed")
				}
				return nil
			}})
		}
	}

	ledger := services.NewLedgerService(store)
	sessions := services.NewSessionService(store, tokens, cfg.JWTPrivateKey(), cfg.TokenTTL, nil)

	mux := handler.NewRouter(handler.Handlers{
		Auth:    handler.NewAuthHandler(sessions),
		Student: handler.NewStudentHandler(ledger),
		Admin:   handler.NewAdminHandler(store, ledger, services.NewOrderService(store)),
		Public:  handler.NewPublicHandler(ledger, services.NewLeaderboardService(store)),
		Export:  handler.NewExportHandler(cfg.ExportRoot),
		Health:  handler.NewHealthHandler(cfg.Version, logging.New("health"), checks...),
		Metrics: m.Handler(),
	}, middleware.NewAuthMiddleware(cfg.JWTPublicKey(), tokens, logging.New("auth")))

	// Instrument sits directly on the mux so it can read the matched pattern.
	var h http.Handler = m.Instrument(mux)
	h = middleware.CORSMiddleware(cfg.AllowedOrigins)(h)
	h = middleware.RequestLogger(logging.New("http"))(h)

	return &App{Handler: h, Store: store, Relay: relay}, cleanup, nil
}
