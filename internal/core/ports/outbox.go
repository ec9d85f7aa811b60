package ports

import (
	"context"
	"time"
)

type OutboxRecord struct {
	ID        string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxStore is the relay's view of undelivered events.
type OutboxStore interface {
	PendingEvents(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkProcessed(ctx context.Context, id string) error
}
