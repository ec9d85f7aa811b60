package services_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/AchilleasB/classbank/ledger-service/internal/core/services"
	"github.com/AchilleasB/classbank/ledger-service/test/mocks"
	"github.com/golang-jwt/jwt/v5"
)

func generateTestKeys(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

func TestSessionService_LoginIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	key := generateTestKeys(t)
	now := time.Now()
	sessions := services.NewSessionService(f.store, mocks.NewMockTokenStore(), key, time.Hour, mocks.FixedClock(now))

	session, err := sessions.Login(context.Background(), "5A", "kumarn", "kumarpw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Identity.Role != domain.RoleStudent || session.Identity.Class != "5A" {
		t.Errorf("unexpected identity %+v", session.Identity)
	}

	claims, err := services.ParseSessionToken(session.Token, &key.PublicKey)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Identity() != session.Identity {
		t.Errorf("claims identity %+v differs from session %+v", claims.Identity(), session.Identity)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestSessionService_LoginRejectsBadCredential(t *testing.T) {
	f := newFixture(t)
	sessions := services.NewSessionService(f.store, mocks.NewMockTokenStore(), generateTestKeys(t), time.Hour, nil)

	_, err := sessions.Login(context.Background(), "", "admin", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestSessionService_LogoutRevokesForRemainingLifetime(t *testing.T) {
	f := newFixture(t)
	tokens := mocks.NewMockTokenStore()
	now := time.Now()
	sessions := services.NewSessionService(f.store, tokens, generateTestKeys(t), time.Hour, mocks.FixedClock(now))

	if err := sessions.Logout(context.Background(), "tok-1", now.Add(30*time.Minute)); err != nil {
		t.Fatalf("logout: %v", err)
	}
	revoked, _ := tokens.IsRevoked(context.Background(), "tok-1")
	if !revoked || len(tokens.RevokeCalls) != 1 {
		t.Errorf("expected tok-1 revoked once, got %v", tokens.RevokeCalls)
	}
	if err := sessions.Logout(context.Background(), "", now); err == nil {
		t.Error("expected an error for a token without id")
	}
}

func TestParseSessionToken_Rejects(t *testing.T) {
	key := generateTestKeys(t)
	other := generateTestKeys(t)

	sign := func(k *rsa.PrivateKey, claims services.SessionClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(k)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	valid := func() services.SessionClaims {
		return services.SessionClaims{
			Role: domain.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "tok",
				Issuer:    "classbank",
				Subject:   "admin",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"
	noRole := valid()
	noRole.Role = ""

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong_key", sign(other, valid())},
		{"expired", sign(key, expired)},
		{"wrong_issuer", sign(key, wrongIssuer)},
		{"missing_role", sign(key, noRole)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := services.ParseSessionToken(tt.token, &key.PublicKey); err == nil {
				t.Error("expected token to be rejected")
			}
		})
	}

	if _, err := services.ParseSessionToken(sign(key, valid()), &key.PublicKey); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
}
