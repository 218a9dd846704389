package session

import (
	"testing"

	"github.com/rewardjar/rewardjar/internal/database"
	"github.com/rewardjar/rewardjar/internal/store"
)

func setupSessionTest(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(store.NewSettingsStore(db, nil))
}

func TestSelectedKidDefaultsToEmpty(t *testing.T) {
	s := setupSessionTest(t)

	id, err := s.SelectedKid()
	if err != nil {
		t.Fatalf("selected kid: %v", err)
	}
	if id != "" {
		t.Errorf("id = %q, want empty", id)
	}
}

func TestSelectedKidPersists(t *testing.T) {
	s := setupSessionTest(t)

	if err := s.SetSelectedKid("kid-2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	id, err := s.SelectedKid()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if id != "kid-2" {
		t.Errorf("id = %q, want kid-2", id)
	}

	if err := s.ClearSelectedKid(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	id, err = s.SelectedKid()
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if id != "" {
		t.Errorf("id = %q, want empty after clear", id)
	}
}
