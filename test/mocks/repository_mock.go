// Package mocks provides in-memory implementations of the core ports for
// tests. Each mock records its calls and supports error injection.
package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

// MockSnapshotRepository keeps the last saved snapshot in memory. Snapshots
// are stored JSON-encoded so tests exercise the same round trip as the real
// repositories.
type MockSnapshotRepository struct {
	mu sync.RWMutex

	payload []byte
	events  []domain.OrderEvent

	// Call tracking for verification
	LoadCalls int
	SaveCalls int

	// Error injection for testing error scenarios
	LoadError error
	SaveError error
}

var _ ports.SnapshotRepository = (*MockSnapshotRepository)(nil)

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{}
}

// Seed stores snap as if it had been saved earlier.
func (m *MockSnapshotRepository) Seed(snap domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload, _ = json.Marshal(snap)
}

func (m *MockSnapshotRepository) Load(ctx context.Context) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls++
	if m.LoadError != nil {
		return domain.Snapshot{}, m.LoadError
	}
	if m.payload == nil {
		return domain.Snapshot{}, ports.ErrSnapshotNotFound
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(m.payload, &snap); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snap domain.Snapshot, events []domain.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.payload = payload
	m.events = append(m.events, events...)
	return nil
}

// Saved decodes the last saved snapshot.
func (m *MockSnapshotRepository) Saved() (domain.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.payload == nil {
		return domain.Snapshot{}, false
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(m.payload, &snap); err != nil {
		return domain.Snapshot{}, false
	}
	return snap, true
}

// Events returns a copy of every event saved so far.
func (m *MockSnapshotRepository) Events() []domain.OrderEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.OrderEvent, len(m.events))
	copy(events, m.events)
	return events
}

func (m *MockSnapshotRepository) GetSaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.SaveCalls
}

// Reset clears stored data, call tracking and injected errors.
func (m *MockSnapshotRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.payload = nil
	m.events = nil
	m.LoadCalls = 0
	m.SaveCalls = 0
	m.LoadError = nil
	m.SaveError = nil
}
