package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/clock"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

func newTestJWT(t *testing.T, c clocker) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "tradeport",
		Audiences: []string{"tradeport-web"},
		TTL: map[Purpose]time.Duration{
			PurposeAccess:        time.Hour,
			PurposeRefresh:       7 * 24 * time.Hour,
			PurposePasswordReset: 10 * time.Minute,
		},
		Clock: c,
		UUID:  staticID("0193b1d2-0000-7000-8000-000000000001"),
	})
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}
	return s
}

func TestNewHS512_Validation(t *testing.T) {
	if _, err := NewHS512(Config{Secret: []byte("short")}); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
	if _, err := NewHS512(Config{Secret: []byte(strings.Repeat("k", 64))}); err == nil {
		t.Fatalf("expected error for missing clock")
	}
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	// Arrange
	fc := clock.NewFake(time.Now().Truncate(time.Second))
	s := newTestJWT(t, fc)
	sub := Subject{AccountID: 42, Email: "a@b.com", Role: "user"}

	// Act
	tok, err := s.Generate(sub, PurposePasswordReset)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	claims, err := s.Verify(tok.Value, PurposePasswordReset)

	// Assert
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.AccountID != 42 || claims.Email != "a@b.com" || claims.Role != "user" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.ID != tok.ID || tok.ID == "" {
		t.Fatalf("jti = %q, token id = %q", claims.ID, tok.ID)
	}
	if !tok.ExpiresAt.Equal(fc.Now().Add(10 * time.Minute)) {
		t.Fatalf("ExpiresAt = %s", tok.ExpiresAt)
	}
}

func TestSymmetric_PurposeMismatch(t *testing.T) {
	s := newTestJWT(t, clock.NewFake(time.Now()))

	tok, err := s.Generate(Subject{AccountID: 1}, PurposeAccess)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := s.Verify(tok.Value, PurposePasswordReset); !errors.Is(err, ErrPurposeMismatch) {
		t.Fatalf("expected ErrPurposeMismatch, got %v", err)
	}
	if _, err := s.Generate(Subject{AccountID: 1}, ""); err == nil {
		t.Fatalf("expected error for empty purpose")
	}
}

func TestSymmetric_Expired(t *testing.T) {
	fc := clock.NewFake(time.Now())
	s := newTestJWT(t, fc)

	tok, err := s.Generate(Subject{AccountID: 1}, PurposePasswordReset)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	fc.Advance(11 * time.Minute)

	if _, err := s.Verify(tok.Value, PurposePasswordReset); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSymmetric_Tampered(t *testing.T) {
	s := newTestJWT(t, clock.NewFake(time.Now()))

	tok, err := s.Generate(Subject{AccountID: 1}, PurposeAccess)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := s.Verify(tok.Value+"x", PurposeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthContext(t *testing.T) {
	ctx := t.Context()
	if GetAuth(ctx) != nil {
		t.Fatalf("expected nil claims")
	}

	ctx = SetAuth(ctx, Claims{AccountID: 7})
	if got := GetAuth(ctx); got == nil || got.AccountID != 7 {
		t.Fatalf("GetAuth() = %+v", got)
	}
}

func TestSymmetric_RefreshLifetime(t *testing.T) {
	fc := clock.NewFake(time.Now().Truncate(time.Second))
	s := newTestJWT(t, fc)
	sub := Subject{AccountID: 7, Email: "a@b.com", Role: "seller"}

	tok, err := s.Generate(sub, PurposeRefresh)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !tok.ExpiresAt.Equal(fc.Now().Add(7 * 24 * time.Hour)) {
		t.Fatalf("ExpiresAt = %s", tok.ExpiresAt)
	}
	if _, err := s.Verify(tok.Value, PurposeAccess); !errors.Is(err, ErrPurposeMismatch) {
		t.Fatalf("expected ErrPurposeMismatch, got %v", err)
	}

	fc.Advance(6 * 24 * time.Hour)
	if _, err := s.Verify(tok.Value, PurposeRefresh); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
}
