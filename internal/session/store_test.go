package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/civicdesk/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	identity := domain.Identity{UserID: "u1", Role: domain.RoleEndUser}
	token, err := store.Create(ctx, identity)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	resolved, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resolved != identity {
		t.Fatalf("resolved %+v, want %+v", resolved, identity)
	}
}

func TestMemoryStoreUnknownToken(t *testing.T) {
	store := NewMemoryStore(0)
	if _, err := store.Get(context.Background(), "no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	token, err := store.Create(ctx, domain.Identity{UserID: "u1", Role: domain.RoleEndUser})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := store.Get(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	token, err := store.Create(ctx, domain.Identity{UserID: "u1", Role: domain.RoleEndUser})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, err := store.Get(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestTokensAreUnique(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := store.Create(ctx, domain.Identity{UserID: "u1", Role: domain.RoleEndUser})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token %s", token)
		}
		seen[token] = struct{}{}
	}
}
