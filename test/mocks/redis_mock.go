package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient implements the handful of Redis commands the token store
// issues. Values expire on read like the real thing.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string]mockRedisValue

	// Error injection
	SetError    error
	ExistsError error
	PingError   error
}

type mockRedisValue struct {
	value     string
	expiresAt time.Time
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data: make(map[string]mockRedisValue),
	}
}

// Set stores a value with optional expiration.
func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx)

	if m.SetError != nil {
		cmd.SetErr(m.SetError)
		return cmd
	}

	expiresAt := time.Time{}
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}

	m.data[key] = mockRedisValue{
		value:     value.(string),
		expiresAt: expiresAt,
	}

	cmd.SetVal("OK")
	return cmd
}

// Exists counts how many of keys are present and unexpired.
func (m *MockRedisClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmd := redis.NewIntCmd(ctx)

	if m.ExistsError != nil {
		cmd.SetErr(m.ExistsError)
		return cmd
	}

	var count int64
	for _, key := range keys {
		val, ok := m.data[key]
		if ok && (val.expiresAt.IsZero() || time.Now().Before(val.expiresAt)) {
			count++
		}
	}

	cmd.SetVal(count)
	return cmd
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.PingError != nil {
		cmd.SetErr(m.PingError)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

// TTL reports the remaining lifetime of key, or zero if it has none.
func (m *MockRedisClient) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	if !ok || val.expiresAt.IsZero() {
		return 0
	}
	return time.Until(val.expiresAt)
}

// HasKey checks if a key exists (for test assertions).
func (m *MockRedisClient) HasKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return false
	}
	if !val.expiresAt.IsZero() && time.Now().After(val.expiresAt) {
		return false
	}
	return true
}

func (m *MockRedisClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]mockRedisValue)
	m.SetError = nil
	m.ExistsError = nil
	m.PingError = nil
}
