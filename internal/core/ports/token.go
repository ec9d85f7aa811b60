package ports

import (
	"context"
	"time"
)

// TokenStore remembers revoked session tokens until they would expire anyway.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
