package store

import (
	"testing"

	"github.com/rewardjar/rewardjar/internal/database"
	"github.com/rewardjar/rewardjar/internal/model"
)

func setupKidTestDB(t *testing.T) (*KidStore, *HouseholdStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewKidStore(db, nil), NewHouseholdStore(db, nil)
}

func TestKidCRUD(t *testing.T) {
	ks, hs := setupKidTestDB(t)

	if err := hs.Create(&model.Household{ID: "hh", Name: "Home"}); err != nil {
		t.Fatalf("create household: %v", err)
	}

	kid := &model.Kid{HouseholdID: "hh", Name: "Daniel", Avatar: "D", Color: "#4F8EF7"}
	if err := ks.Create(kid); err != nil {
		t.Fatalf("create kid: %v", err)
	}
	if kid.ID == "" {
		t.Fatal("expected generated id")
	}
	if kid.SortOrder != 0 {
		t.Errorf("sort_order = %d, want 0", kid.SortOrder)
	}

	got, err := ks.GetByID(kid.ID)
	if err != nil {
		t.Fatalf("get kid: %v", err)
	}
	if got == nil {
		t.Fatal("expected kid, got nil")
	}
	if got.Name != "Daniel" {
		t.Errorf("name = %q, want %q", got.Name, "Daniel")
	}
	if got.Color != "#4F8EF7" {
		t.Errorf("color = %q, want %q", got.Color, "#4F8EF7")
	}

	updated, err := ks.Update(kid.ID, "Dan", "X", "#000000")
	if err != nil {
		t.Fatalf("update kid: %v", err)
	}
	if updated.Name != "Dan" || updated.Avatar != "X" {
		t.Errorf("updated = %+v", updated)
	}

	if err := ks.Delete(kid.ID); err != nil {
		t.Fatalf("delete kid: %v", err)
	}
	got, err = ks.GetByID(kid.ID)
	if err != nil {
		t.Fatalf("get deleted kid: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestKidSortOrder(t *testing.T) {
	ks, _ := setupKidTestDB(t)

	a := &model.Kid{HouseholdID: "hh", Name: "Alice"}
	b := &model.Kid{HouseholdID: "hh", Name: "Bob"}
	c := &model.Kid{HouseholdID: "hh", Name: "Carol"}
	for _, k := range []*model.Kid{a, b, c} {
		if err := ks.Create(k); err != nil {
			t.Fatalf("create %s: %v", k.Name, err)
		}
	}

	kids, err := ks.List("hh")
	if err != nil {
		t.Fatalf("list kids: %v", err)
	}
	if len(kids) != 3 {
		t.Fatalf("expected 3 kids, got %d", len(kids))
	}
	for i, want := range []string{"Alice", "Bob", "Carol"} {
		if kids[i].Name != want {
			t.Errorf("kids[%d].Name = %q, want %q", i, kids[i].Name, want)
		}
		if kids[i].SortOrder != i {
			t.Errorf("kids[%d].SortOrder = %d, want %d", i, kids[i].SortOrder, i)
		}
	}

	// Reorder: Carol, Alice, Bob
	if err := ks.UpdateOrder([]string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("update order: %v", err)
	}
	kids, err = ks.List("hh")
	if err != nil {
		t.Fatalf("list kids: %v", err)
	}
	for i, want := range []string{"Carol", "Alice", "Bob"} {
		if kids[i].Name != want {
			t.Errorf("after reorder kids[%d].Name = %q, want %q", i, kids[i].Name, want)
		}
	}
}

func TestKidValidation(t *testing.T) {
	ks, _ := setupKidTestDB(t)

	err := ks.Create(&model.Kid{HouseholdID: "hh", Name: ""})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestKidDuplicateKey(t *testing.T) {
	ks, _ := setupKidTestDB(t)

	if err := ks.Create(&model.Kid{ID: "kid-1", HouseholdID: "hh", Name: "Alice"}); err != nil {
		t.Fatalf("create kid: %v", err)
	}
	err := ks.Create(&model.Kid{ID: "kid-1", HouseholdID: "hh", Name: "Bob"})
	if !IsDuplicateKey(err) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestKidUpdateNotFound(t *testing.T) {
	ks, _ := setupKidTestDB(t)

	_, err := ks.Update("missing", "Name", "", "")
	if !IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestKidDeleteIdempotent(t *testing.T) {
	ks, _ := setupKidTestDB(t)

	if err := ks.Delete("missing"); err != nil {
		t.Errorf("delete of absent kid should succeed, got %v", err)
	}
}
