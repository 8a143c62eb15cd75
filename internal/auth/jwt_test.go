package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssuerRoundTrip(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer returned error: %v", err)
	}

	userID := uuid.New()
	token, err := issuer.Generate(userID, "a@x.com")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got != userID {
		t.Fatalf("expected user id %s, got %s", userID, got)
	}
}

func TestIssuerRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	signer, _ := NewIssuer("one-secret", time.Hour)
	verifier, _ := NewIssuer("other-secret", time.Hour)

	token, err := signer.Generate(uuid.New(), "a@x.com")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssuerRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issuer, _ := NewIssuer("test-secret", -time.Minute)
	// A non-positive ttl falls back to the default, so build an expired issuer by hand.
	issuer.ttl = -time.Minute

	token, err := issuer.Generate(uuid.New(), "a@x.com")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewIssuer("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatal("expected password to match its hash")
	}
	if CheckPassword(hash, "battery staple") {
		t.Fatal("expected wrong password to be rejected")
	}
}
