package store

import (
	"testing"

	"github.com/rewardjar/rewardjar/internal/database"
	"github.com/rewardjar/rewardjar/internal/model"
)

func setupRewardTestDB(t *testing.T) (*RewardStore, *BalanceStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRewardStore(db, nil), NewBalanceStore(db)
}

func TestRewardCRUD(t *testing.T) {
	rs, _ := setupRewardTestDB(t)

	reward := &model.Reward{HouseholdID: "hh", Title: "Ice cream", PointsCost: 25, Icon: "I", Category: "treats", Active: true}
	if err := rs.Create(reward); err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if reward.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := rs.GetByID(reward.ID)
	if err != nil {
		t.Fatalf("get reward: %v", err)
	}
	if got == nil {
		t.Fatal("expected reward, got nil")
	}
	if got.Title != "Ice cream" || got.PointsCost != 25 || got.Category != "treats" {
		t.Errorf("got = %+v", got)
	}

	updated, err := rs.Update(reward.ID, "Movie night", 100, "M", "experiences")
	if err != nil {
		t.Fatalf("update reward: %v", err)
	}
	if updated.Title != "Movie night" || updated.PointsCost != 100 {
		t.Errorf("updated = %+v", updated)
	}

	if err := rs.Delete(reward.ID); err != nil {
		t.Fatalf("delete reward: %v", err)
	}
	got, _ = rs.GetByID(reward.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
	if err := rs.Delete(reward.ID); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
}

func TestRewardListActive(t *testing.T) {
	rs, _ := setupRewardTestDB(t)

	a := &model.Reward{HouseholdID: "hh", Title: "A", PointsCost: 10, Active: true}
	b := &model.Reward{HouseholdID: "hh", Title: "B", PointsCost: 20, Active: true}
	for _, r := range []*model.Reward{a, b} {
		if err := rs.Create(r); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := rs.SetActive(b.ID, false); err != nil {
		t.Fatalf("set inactive: %v", err)
	}

	active, err := rs.ListActive("hh")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].Title != "A" {
		t.Errorf("active = %+v", active)
	}

	all, err := rs.List("hh")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 rewards total, got %d", len(all))
	}
}

func TestRewardValidation(t *testing.T) {
	rs, _ := setupRewardTestDB(t)

	if err := rs.Create(&model.Reward{HouseholdID: "hh", PointsCost: 10}); !IsValidation(err) {
		t.Errorf("empty title: expected ValidationError, got %v", err)
	}
	if err := rs.Create(&model.Reward{HouseholdID: "hh", Title: "R", PointsCost: 0}); !IsValidation(err) {
		t.Errorf("zero cost: expected ValidationError, got %v", err)
	}
}

func TestRedeemSnapshotsCost(t *testing.T) {
	rs, _ := setupRewardTestDB(t)

	reward := &model.Reward{HouseholdID: "hh", Title: "Toy", PointsCost: 75, Active: true}
	if err := rs.Create(reward); err != nil {
		t.Fatalf("create: %v", err)
	}

	r, err := rs.Redeem(reward.ID, "kid-1")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if r.PointsSpent != 75 {
		t.Errorf("points_spent = %d, want 75", r.PointsSpent)
	}

	// A later cost change must not rewrite history.
	if _, err := rs.Update(reward.ID, "Toy", 200, "", ""); err != nil {
		t.Fatalf("update: %v", err)
	}
	redemptions, err := rs.ListRedemptionsForKid("kid-1")
	if err != nil {
		t.Fatalf("list redemptions: %v", err)
	}
	if len(redemptions) != 1 || redemptions[0].PointsSpent != 75 {
		t.Errorf("redemptions = %+v, want recorded cost 75", redemptions)
	}
}

func TestRedeemNotFound(t *testing.T) {
	rs, _ := setupRewardTestDB(t)

	_, err := rs.Redeem("missing", "kid-1")
	if !IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedeemAllowsOverspend(t *testing.T) {
	rs, bs := setupRewardTestDB(t)

	reward := &model.Reward{HouseholdID: "hh", Title: "Big", PointsCost: 100, Active: true}
	if err := rs.Create(reward); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The store never checks affordability; that policy lives at the call
	// site. A redemption with no earnings drives the balance negative.
	if _, err := rs.Redeem(reward.ID, "kid-1"); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	balance, err := bs.Compute("kid-1")
	if err != nil {
		t.Fatalf("compute balance: %v", err)
	}
	if balance != -100 {
		t.Errorf("balance = %d, want -100", balance)
	}
}
