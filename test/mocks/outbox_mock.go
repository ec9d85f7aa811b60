package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

// MockOutboxStore holds outbox rows in insertion order.
type MockOutboxStore struct {
	mu        sync.RWMutex
	records   []ports.OutboxRecord
	processed map[string]bool

	PendingCalls int
	MarkCalls    []string

	PendingError error
	MarkError    error
}

var _ ports.OutboxStore = (*MockOutboxStore)(nil)

func NewMockOutboxStore() *MockOutboxStore {
	return &MockOutboxStore{processed: make(map[string]bool)}
}

// AddEvent appends evt as an unprocessed row.
func (m *MockOutboxStore) AddEvent(evt domain.OrderEvent) {
	payload, _ := json.Marshal(evt)
	m.AddRecord(ports.OutboxRecord{
		ID:        evt.ID,
		EventType: string(evt.Type),
		Payload:   payload,
		CreatedAt: time.Now(),
	})
}

func (m *MockOutboxStore) AddRecord(rec ports.OutboxRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
}

func (m *MockOutboxStore) PendingEvents(ctx context.Context, limit int) ([]ports.OutboxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PendingCalls++
	if m.PendingError != nil {
		return nil, m.PendingError
	}

	var out []ports.OutboxRecord
	for _, rec := range m.records {
		if m.processed[rec.ID] {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxStore) MarkProcessed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.MarkCalls = append(m.MarkCalls, id)
	if m.MarkError != nil {
		return m.MarkError
	}
	m.processed[id] = true
	return nil
}

func (m *MockOutboxStore) IsProcessed(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed[id]
}
