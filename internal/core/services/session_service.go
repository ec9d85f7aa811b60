package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "classbank"

// SessionClaims are the JWT claims of a session token. The token id (jti)
// is what logout revokes.
type SessionClaims struct {
	Class string      `json:"class,omitempty"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the principal the token was issued to.
func (c *SessionClaims) Identity() domain.Identity {
	return domain.Identity{Class: c.Class, Username: c.Subject, Role: c.Role}
}

// SessionService issues RS256 session tokens and revokes them on logout.
type SessionService struct {
	directory  ports.DirectoryService
	tokens     ports.TokenStore
	privateKey *rsa.PrivateKey
	ttl        time.Duration
	clock      func() time.Time
}

var _ ports.SessionService = (*SessionService)(nil)

func NewSessionService(
	directory ports.DirectoryService,
	tokens ports.TokenStore,
	privateKey *rsa.PrivateKey,
	ttl time.Duration,
	clock func() time.Time,
) *SessionService {
	if clock == nil {
		clock = time.Now
	}
	return &SessionService{
		directory:  directory,
		tokens:     tokens,
		privateKey: privateKey,
		ttl:        ttl,
		clock:      clock,
	}
}

// Login authenticates the caller and signs a token for them. An empty
// class logs in a global admin or developer.
func (s *SessionService) Login(ctx context.Context, class, username, credential string) (domain.Session, error) {
	id, err := s.directory.Authenticate(ctx, class, username, credential)
	if err != nil {
		return domain.Session{}, err
	}

	now := s.clock()
	expiresAt := now.Add(s.ttl)
	claims := SessionClaims{
		Class: id.Class,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, ExpiresAt: expiresAt, Identity: id}, nil
}

// Logout revokes tokenID for the rest of its lifetime.
func (s *SessionService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token has no id")
	}
	return s.tokens.Revoke(ctx, tokenID, expiresAt.Sub(s.clock()))
}

// ParseSessionToken verifies an RS256 token with publicKey and returns its
// claims. Expiry and issuer are checked.
func ParseSessionToken(raw string, publicKey *rsa.PublicKey) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return publicKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
