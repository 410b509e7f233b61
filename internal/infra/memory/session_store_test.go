package memory

import (
	"testing"

	"live-quiz-service/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	store.Put(app.NewSession("s1", "quiz-1", nil, 0))
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected session present")
	}

	store.BindPlayer("p1", "s1")
	if session, ok := store.ByPlayer("p1"); !ok || session.ID() != "s1" {
		t.Fatalf("expected player index to resolve s1")
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
	if _, ok := store.ByPlayer("p1"); ok {
		t.Fatalf("expected player binding removed with session")
	}
}

func TestSessionStoreClear(t *testing.T) {
	store := NewSessionStore()
	store.Put(app.NewSession("s1", "quiz-1", nil, 0))
	store.Put(app.NewSession("s2", "quiz-2", nil, 0))
	store.BindPlayer("p1", "s1")

	store.Clear()
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected s1 cleared")
	}
	if _, ok := store.Get("s2"); ok {
		t.Fatalf("expected s2 cleared")
	}
	if _, ok := store.ByPlayer("p1"); ok {
		t.Fatalf("expected player index cleared")
	}
}

func TestByPlayerUnknown(t *testing.T) {
	store := NewSessionStore()
	if _, ok := store.ByPlayer("nobody"); ok {
		t.Fatalf("expected miss for unknown player")
	}
}
