package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	"github.com/sony/gobreaker"
)

const (
	// The whole economy lives in a single row.
	snapshotRowID = 1

	OutboxChannelName = "outbox_channel"
)

const schema = `
CREATE TABLE IF NOT EXISTS economy_snapshots (
	id       INTEGER PRIMARY KEY,
	payload  JSONB NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS outbox_events (
	id           TEXT PRIMARY KEY,
	event_type   TEXT NOT NULL,
	payload      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	processed_at TIMESTAMPTZ
);`

// PostgresRepository stores the economy snapshot as JSONB and keeps the
// order event outbox next to it.
type PostgresRepository struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

var (
	_ ports.SnapshotRepository = (*PostgresRepository)(nil)
	_ ports.OutboxStore        = (*PostgresRepository)(nil)
)

func NewPostgresRepository(db *sql.DB, cb *gobreaker.CircuitBreaker) *PostgresRepository {
	return &PostgresRepository{db: db, cb: cb}
}

// EnsureSchema creates the snapshot and outbox tables if they are missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context) (domain.Snapshot, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		var payload []byte
		err := r.db.QueryRowContext(ctx,
			"SELECT payload FROM economy_snapshots WHERE id = $1",
			snapshotRowID,
		).Scan(&payload)
		// A missing row is not a database failure.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return payload, err
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	payload, _ := res.([]byte)
	if payload == nil {
		return domain.Snapshot{}, ports.ErrSnapshotNotFound
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// Save upserts the snapshot and inserts events into the outbox in one
// transaction. Each event is announced on outbox_channel once committed.
func (r *PostgresRepository) Save(ctx context.Context, snap domain.Snapshot, events []domain.OrderEvent) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.cb.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO economy_snapshots (id, payload, saved_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at`,
			snapshotRowID,
			payload,
			snap.SavedAt,
		)
		if err != nil {
			return nil, err
		}

		for _, evt := range events {
			body, err := json.Marshal(evt)
			if err != nil {
				return nil, err
			}
			_, err = tx.ExecContext(ctx,
				"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, $4)",
				evt.ID,
				string(evt.Type),
				body,
				evt.OccurredAt,
			)
			if err != nil {
				return nil, err
			}
			if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", OutboxChannelName, evt.ID); err != nil {
				return nil, err
			}
		}

		return nil, tx.Commit()
	})
	return err
}

// PendingEvents returns up to limit unprocessed events, oldest first. Rows
// are not locked: exactly one relay process may drain a database, or
// events will be published twice.
func (r *PostgresRepository) PendingEvents(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		rows, err := r.db.QueryContext(ctx, `
			SELECT id, event_type, payload, created_at
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at, id
			LIMIT $1`, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var records []ports.OutboxRecord
		for rows.Next() {
			var rec ports.OutboxRecord
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload, &rec.CreatedAt); err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		return records, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	records, _ := res.([]ports.OutboxRecord)
	return records, nil
}

func (r *PostgresRepository) MarkProcessed(ctx context.Context, id string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return r.db.ExecContext(ctx, "UPDATE outbox_events SET processed_at = $1 WHERE id = $2", time.Now().UTC(), id)
	})
	return err
}

// Ping reports whether the database answers. Used by readiness probes.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
