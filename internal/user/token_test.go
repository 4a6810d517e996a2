package user

import (
	"errors"
	"testing"
	"time"

	"github.com/scoutline/recruiting-data/internal/user/entity"
)

func testUser() *entity.User {
	return &entity.User{ID: "2PzQ6kXb1vFzJr0aaaaaaaaaaaa", Email: "coach@example.com"}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), "recruiting-data", time.Hour)
	u := testUser()
	raw, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := issuer.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != u.ID {
		t.Fatalf("verified subject %q, want %q", got, u.ID)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret-a"), "recruiting-data", time.Hour)
	other := NewTokenIssuer([]byte("secret-b"), "recruiting-data", time.Hour)
	raw, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpiredRejected(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), "recruiting-data", -time.Minute)
	raw, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-secret"), "recruiting-data", time.Hour)
	if _, err := issuer.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hashed, err := h.Hash("swordfish")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !h.Verify(hashed, "swordfish") {
		t.Fatal("correct password rejected")
	}
	if h.Verify(hashed, "sw0rdfish") {
		t.Fatal("wrong password accepted")
	}
}
