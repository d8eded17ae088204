package utils

import (
	"strings"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "alice", "user", 2)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if time.Until(tok.Exp) <= 0 {
		t.Fatalf("expected future expiry, got %v", tok.Exp)
	}

	claims, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("unexpected user id: %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("unexpected username: %q", claims.Username)
	}
	if claims.Role != "user" {
		t.Fatalf("unexpected role: %q", claims.Role)
	}
	if claims.Exp.Before(claims.IssuedAt) {
		t.Fatalf("exp %v before iat %v", claims.Exp, claims.IssuedAt)
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", 1, "bob", "user", 1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseAccessToken("other", tok.Token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	// Negative TTL puts exp in the past; the parser must reject it.
	tok, err := NewAccessToken("secret", 1, "bob", "user", -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseAccessToken("secret", tok.Token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseAccessTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ParseAccessToken("secret", raw); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestNewRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(a.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(a.Raw))
	}
	if a.Raw == b.Raw {
		t.Fatal("two refresh tokens must not collide")
	}
	if time.Until(a.Exp) < 29*24*time.Hour {
		t.Fatalf("expiry too close: %v", a.Exp)
	}
}

func TestHashRefreshRaw(t *testing.T) {
	h1 := HashRefreshRaw("value")
	h2 := HashRefreshRaw("value")
	if h1 != h2 {
		t.Fatal("hash must be deterministic")
	}
	if len(h1) != 64 || strings.ToLower(h1) != h1 {
		t.Fatalf("expected lowercase 64-char hex, got %q", h1)
	}
	if HashRefreshRaw("other") == h1 {
		t.Fatal("different values must hash differently")
	}
}
