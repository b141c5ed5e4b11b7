package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), NewInMemoryRevocationStore())
	userID := uuid.New()

	raw, err := tokens.Issue(userID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parsed, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed != userID {
		t.Fatalf("expected user %s, got %s", userID, parsed)
	}
}

func TestTokens_ParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokens([]byte("secret-a"), NewInMemoryRevocationStore())
	verifier := NewTokens([]byte("secret-b"), NewInMemoryRevocationStore())

	raw, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := verifier.Parse(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokens_RevokeBlocksToken(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), NewInMemoryRevocationStore())
	raw, err := tokens.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	ctx := context.Background()
	if revoked, _ := tokens.IsRevoked(ctx, raw); revoked {
		t.Fatal("fresh token should not be revoked")
	}
	if err := tokens.Revoke(ctx, raw); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	revoked, err := tokens.IsRevoked(ctx, raw)
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if !revoked {
		t.Fatal("token should be revoked after logout")
	}
}

func TestInMemoryRevocationStore_EntryExpires(t *testing.T) {
	store := NewInMemoryRevocationStore()
	ctx := context.Background()
	if err := store.Revoke(ctx, "tok", -time.Second); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	revoked, err := store.IsRevoked(ctx, "tok")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatal("expired revocation entry should not block token")
	}
}
