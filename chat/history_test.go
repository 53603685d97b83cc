package chat

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "chat.db"), 0600, nil)
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewHistoryStore(db)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}
	return store
}

func TestHistoryAppendAndRecent(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	for _, turn := range []struct{ role, content string }{
		{"user", "hello"},
		{"assistant", "hi, how can I help?"},
		{"user", "list my tasks"},
	} {
		if _, err := store.Append(userID, turn.role, turn.content); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	messages, err := store.Recent(userID, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Content != "hello" || messages[2].Content != "list my tasks" {
		t.Errorf("messages out of order: %+v", messages)
	}
	for _, m := range messages {
		if m.ID == uuid.Nil || m.CreatedAt.IsZero() {
			t.Errorf("message missing id or timestamp: %+v", m)
		}
	}
}

func TestHistoryRecentLimit(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	for _, content := range []string{"one", "two", "three", "four"} {
		store.Append(userID, "user", content)
	}

	messages, err := store.Recent(userID, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Content != "three" || messages[1].Content != "four" {
		t.Errorf("limit must keep the newest turns, got %+v", messages)
	}
}

func TestHistoryIsolatedPerUser(t *testing.T) {
	store := newTestStore(t)
	alice, bob := uuid.New(), uuid.New()

	store.Append(alice, "user", "alice's message")

	messages, err := store.Recent(bob, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("bob must not see alice's history, got %+v", messages)
	}
}

func TestHistoryClear(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	store.Append(userID, "user", "wipe me")
	if err := store.Clear(userID); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	messages, _ := store.Recent(userID, 0)
	if len(messages) != 0 {
		t.Errorf("history survived clear: %+v", messages)
	}

	// Clearing an empty transcript is a no-op.
	if err := store.Clear(uuid.New()); err != nil {
		t.Errorf("Clear on unknown user failed: %v", err)
	}
}
