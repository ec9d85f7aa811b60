package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

// MockOrderEventPublisher implements ports.OrderEventPublisher for testing
// the outbox relay without a RabbitMQ connection.
type MockOrderEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents []domain.OrderEvent

	PublishError error

	PublishCallCount int
}

var _ ports.OrderEventPublisher = (*MockOrderEventPublisher)(nil)

func NewMockOrderEventPublisher() *MockOrderEventPublisher {
	return &MockOrderEventPublisher{
		PublishedEvents: make([]domain.OrderEvent, 0),
	}
}

func (m *MockOrderEventPublisher) PublishOrderEvent(ctx context.Context, evt domain.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of all events that were published.
func (m *MockOrderEventPublisher) GetPublishedEvents() []domain.OrderEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.OrderEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockOrderEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

func (m *MockOrderEventPublisher) SetPublishError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishError = err
}

func (m *MockOrderEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedEvents = make([]domain.OrderEvent, 0)
	m.PublishError = nil
	m.PublishCallCount = 0
}
