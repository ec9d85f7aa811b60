package main

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/repository"
	"github.com/AchilleasB/classbank/ledger-service/internal/config"
)

const schemaTimeout = 30 * time.Second

// openOutboxStore wraps db in the relay's repository and creates the
// outbox tables if the API has not done so yet.
func openOutboxStore(ctx context.Context, db *sql.DB, log *slog.Logger) (*repository.PostgresRepository, error) {
	store := repository.NewPostgresRepository(db, config.NewCircuitBreaker(config.BreakerRelayPostgres, log))

	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
