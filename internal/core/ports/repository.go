package ports

import (
	"context"
	"errors"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
)

// ErrSnapshotNotFound is returned by Load when nothing has been saved yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository persists the whole economy at once. Save must write the
// snapshot and its outbox events atomically.
type SnapshotRepository interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snap domain.Snapshot, events []domain.OrderEvent) error
}
