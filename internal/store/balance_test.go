package store

import (
	"testing"

	"github.com/rewardjar/rewardjar/internal/database"
	"github.com/rewardjar/rewardjar/internal/model"
)

func setupBalanceTestDB(t *testing.T) (*BalanceStore, *KidStore, *TaskStore, *RewardStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBalanceStore(db), NewKidStore(db, nil), NewTaskStore(db, nil), NewRewardStore(db, nil)
}

func TestBalanceEmptyLedger(t *testing.T) {
	bs, ks, _, _ := setupBalanceTestDB(t)

	kid := &model.Kid{HouseholdID: "hh", Name: "Alice"}
	if err := ks.Create(kid); err != nil {
		t.Fatalf("create kid: %v", err)
	}

	balance, err := bs.Compute(kid.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if balance != 0 {
		t.Errorf("balance = %d, want 0 for empty ledger", balance)
	}
}

func TestBalanceEarnThenSpend(t *testing.T) {
	bs, ks, ts, rs := setupBalanceTestDB(t)

	kid := &model.Kid{HouseholdID: "hh", Name: "Alice"}
	if err := ks.Create(kid); err != nil {
		t.Fatalf("create kid: %v", err)
	}
	task := &model.Task{HouseholdID: "hh", Title: "Chore", Points: 5, Active: true}
	if err := ts.Create(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	reward := &model.Reward{HouseholdID: "hh", Title: "Treat", PointsCost: 5, Active: true}
	if err := rs.Create(reward); err != nil {
		t.Fatalf("create reward: %v", err)
	}

	if _, err := ts.Complete(task.ID, kid.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	balance, err := bs.Compute(kid.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if balance != 5 {
		t.Errorf("balance after completion = %d, want 5", balance)
	}

	if _, err := rs.Redeem(reward.ID, kid.ID); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	balance, err = bs.Compute(kid.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if balance != 0 {
		t.Errorf("balance after redemption = %d, want 0", balance)
	}
}

func TestBalanceIsolationBetweenKids(t *testing.T) {
	bs, ks, ts, _ := setupBalanceTestDB(t)

	k1 := &model.Kid{HouseholdID: "hh", Name: "Alice"}
	k2 := &model.Kid{HouseholdID: "hh", Name: "Bob"}
	for _, k := range []*model.Kid{k1, k2} {
		if err := ks.Create(k); err != nil {
			t.Fatalf("create kid: %v", err)
		}
	}

	// A household task applies to whoever completes it; completing it as
	// k1 must never touch k2's balance.
	task := &model.Task{HouseholdID: "hh", Title: "Dishes", Points: 4, Category: model.CategoryHousehold, Active: true}
	if err := ts.Create(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := ts.Complete(task.ID, k1.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	b1, err := bs.Compute(k1.ID)
	if err != nil {
		t.Fatalf("compute k1: %v", err)
	}
	b2, err := bs.Compute(k2.ID)
	if err != nil {
		t.Fatalf("compute k2: %v", err)
	}
	if b1 != 4 {
		t.Errorf("k1 balance = %d, want 4", b1)
	}
	if b2 != 0 {
		t.Errorf("k2 balance = %d, want 0", b2)
	}
}

func TestBalanceBreakdown(t *testing.T) {
	bs, ks, ts, rs := setupBalanceTestDB(t)

	kid := &model.Kid{HouseholdID: "hh", Name: "Alice"}
	if err := ks.Create(kid); err != nil {
		t.Fatalf("create kid: %v", err)
	}
	if _, err := ts.AddManualPoints(kid.ID, 10); err != nil {
		t.Fatalf("add points: %v", err)
	}
	reward := &model.Reward{HouseholdID: "hh", Title: "R", PointsCost: 3, Active: true}
	if err := rs.Create(reward); err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if _, err := rs.Redeem(reward.ID, kid.ID); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	b, err := bs.Breakdown(kid.ID)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if b.KidName != "Alice" || b.TotalEarned != 10 || b.TotalSpent != 3 || b.Balance != 7 {
		t.Errorf("breakdown = %+v", b)
	}
}

func TestBalanceBreakdownOrphanedLedger(t *testing.T) {
	bs, ks, ts, _ := setupBalanceTestDB(t)

	kid := &model.Kid{HouseholdID: "hh", Name: "Alice"}
	if err := ks.Create(kid); err != nil {
		t.Fatalf("create kid: %v", err)
	}
	if _, err := ts.AddManualPoints(kid.ID, 6); err != nil {
		t.Fatalf("add points: %v", err)
	}

	// Deleting the kid does not cascade; the ledger stays computable.
	if err := ks.Delete(kid.ID); err != nil {
		t.Fatalf("delete kid: %v", err)
	}
	b, err := bs.Breakdown(kid.ID)
	if err != nil {
		t.Fatalf("breakdown after delete: %v", err)
	}
	if b.KidName != "Unknown" {
		t.Errorf("kid name = %q, want Unknown", b.KidName)
	}
	if b.Balance != 6 {
		t.Errorf("balance = %d, want 6", b.Balance)
	}
}

func TestBalanceAll(t *testing.T) {
	bs, ks, ts, _ := setupBalanceTestDB(t)

	k1 := &model.Kid{HouseholdID: "hh", Name: "Alice"}
	k2 := &model.Kid{HouseholdID: "hh", Name: "Bob"}
	for _, k := range []*model.Kid{k1, k2} {
		if err := ks.Create(k); err != nil {
			t.Fatalf("create kid: %v", err)
		}
	}
	if _, err := ts.AddManualPoints(k2.ID, 8); err != nil {
		t.Fatalf("add points: %v", err)
	}

	balances, err := bs.All()
	if err != nil {
		t.Fatalf("all balances: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}
	// Kids come back in sort order, not balance order.
	if balances[0].KidName != "Alice" || balances[0].Balance != 0 {
		t.Errorf("balances[0] = %+v", balances[0])
	}
	if balances[1].KidName != "Bob" || balances[1].Balance != 8 {
		t.Errorf("balances[1] = %+v", balances[1])
	}
}
