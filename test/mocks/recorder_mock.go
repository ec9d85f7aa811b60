package mocks

import (
	"sync"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

type RecordedOperation struct {
	Op  string
	Err error
}

type MockRecorder struct {
	mu         sync.Mutex
	Operations []RecordedOperation
}

var _ ports.OperationRecorder = (*MockRecorder)(nil)

func (m *MockRecorder) RecordOperation(op string, err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Operations = append(m.Operations, RecordedOperation{Op: op, Err: err})
}

// Count returns how many times op was recorded.
func (m *MockRecorder) Count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, rec := range m.Operations {
		if rec.Op == op {
			n++
		}
	}
	return n
}
