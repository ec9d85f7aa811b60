package middleware

import (
	"context"
	"crypto/rsa"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/services"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	tokens    ports.TokenStore
	log       *slog.Logger
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, tokens ports.TokenStore, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		tokens:    tokens,
		log:       log,
	}
}

type contextKey string

const sessionKey contextKey = "session"

// SessionFrom returns the verified claims of the current request.
func SessionFrom(ctx context.Context) (*services.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionKey).(*services.SessionClaims)
	return claims, ok
}

// IdentityFrom returns the authenticated caller of the current request.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	claims, ok := SessionFrom(ctx)
	if !ok {
		return domain.Identity{}, false
	}
	return claims.Identity(), true
}

// RequireRole lets the request through only with a valid, unrevoked bearer
// token whose role is one of roles.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract token from header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := services.ParseSessionToken(parts[1], m.publicKey)
		if err != nil {
			m.log.Debug("token rejected", "error", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		revoked, err := m.tokens.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			m.log.Error("token revocation check failed", "error", err)
			http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
			return
		}
		if revoked {
			http.Error(w, "token revoked", http.StatusUnauthorized)
			return
		}

		if !slices.Contains(roles, claims.Role) {
			m.log.Warn("role mismatch", "required", roles, "role", claims.Role, "user", claims.Subject)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, claims)
		next(w, r.WithContext(ctx))
	}
}
