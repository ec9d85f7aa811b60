package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

// SnapshotGateway loads and saves the whole economy through a repository.
type SnapshotGateway struct {
	repo      ports.SnapshotRepository
	admin     domain.User
	developer domain.User
	clock     func() time.Time
	log       *slog.Logger
}

func NewSnapshotGateway(
	repo ports.SnapshotRepository,
	admin, developer domain.User,
	clock func() time.Time,
	log *slog.Logger,
) *SnapshotGateway {
	if clock == nil {
		clock = time.Now
	}
	return &SnapshotGateway{
		repo:      repo,
		admin:     admin,
		developer: developer,
		clock:     clock,
		log:       log,
	}
}

// Load returns the stored economy, or the seeded default when the
// repository is empty. The seed is not saved until the first mutation.
func (g *SnapshotGateway) Load(ctx context.Context) (*domain.Economy, error) {
	snap, err := g.repo.Load(ctx)
	if errors.Is(err, ports.ErrSnapshotNotFound) {
		g.log.Info("no snapshot found, starting from seed",
			"admin", g.admin.Username, "developer", g.developer.Username)
		return domain.Seed(g.admin, g.developer), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	economy, err := domain.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	g.log.Info("snapshot loaded", "classes", len(snap.Classes), "saved_at", snap.SavedAt)
	return economy, nil
}

// Save writes economy and events in one atomic repository call.
func (g *SnapshotGateway) Save(ctx context.Context, economy *domain.Economy, events []domain.OrderEvent) error {
	if err := g.repo.Save(ctx, economy.Snapshot(g.clock().UTC()), events); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
