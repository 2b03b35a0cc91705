package identity

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewDemoStoreHashesDefaultPassword(t *testing.T) {
	store, err := NewDemoStore("testuser", "")
	if err != nil {
		t.Fatalf("NewDemoStore returned error: %v", err)
	}

	id, ok := store.Lookup(context.Background(), "testuser")
	if !ok {
		t.Fatal("expected testuser to be found")
	}
	if id.ID != DefaultUserID {
		t.Fatalf("ID = %d, want %d", id.ID, DefaultUserID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(DefaultPassword)); err != nil {
		t.Fatalf("stored hash does not match the default password: %v", err)
	}
}

func TestLookupUnknownUser(t *testing.T) {
	store, err := NewDemoStore("testuser", "")
	if err != nil {
		t.Fatalf("NewDemoStore returned error: %v", err)
	}
	if _, ok := store.Lookup(context.Background(), "nosuchuser"); ok {
		t.Fatal("expected unknown username to be absent")
	}
	if _, ok := store.Lookup(context.Background(), "TestUser"); ok {
		t.Fatal("lookup must be case sensitive")
	}
}

func TestNewFixedStoreRejectsInvalidHash(t *testing.T) {
	if _, err := NewFixedStore(Identity{ID: 1, Username: "testuser", PasswordHash: "plain"}); err == nil {
		t.Fatal("expected non-bcrypt hash to be rejected")
	}
	if _, err := NewFixedStore(Identity{ID: 1, PasswordHash: "plain"}); err == nil {
		t.Fatal("expected empty username to be rejected")
	}
}
