package services

import (
	"context"
	"sort"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

type LeaderboardService struct {
	store *Store
}

var _ ports.LeaderboardService = (*LeaderboardService)(nil)

func NewLeaderboardService(store *Store) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// Leaderboard ranks every student of every class by balance + savings.
// Equal totals keep class creation order, then enrollment order.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries := []domain.LeaderboardEntry{}
	err := s.store.read("leaderboard", func(e *domain.Economy, _ time.Time) error {
		for _, c := range e.Classes() {
			for _, st := range c.Students() {
				entries = append(entries, domain.LeaderboardEntry{
					Class:    c.Name,
					Username: st.Username,
					Total:    st.Total(),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return RankEntries(entries), nil
}

// RankEntries stable-sorts entries by total, highest first, and numbers them.
func RankEntries(entries []domain.LeaderboardEntry) []domain.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total.GreaterThan(entries[j].Total)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
