package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
)

type MockTokenStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Duration

	RevokeCalls    []string
	IsRevokedCalls []string

	RevokeError    error
	IsRevokedError error
}

var _ ports.TokenStore = (*MockTokenStore)(nil)

func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{revoked: make(map[string]time.Duration)}
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RevokeCalls = append(m.RevokeCalls, tokenID)
	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IsRevokedCalls = append(m.IsRevokedCalls, tokenID)
	if m.IsRevokedError != nil {
		return false, m.IsRevokedError
	}
	_, ok := m.revoked[tokenID]
	return ok, nil
}
