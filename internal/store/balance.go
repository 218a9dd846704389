package store

import (
	"database/sql"
	"fmt"

	"github.com/rewardjar/rewardjar/internal/model"
)

// BalanceStore derives point balances from the two ledger tables. It never
// writes; a balance is recomputed in full on every call so it cannot drift
// from the ledger.
type BalanceStore struct {
	db *sql.DB
}

func NewBalanceStore(db *sql.DB) *BalanceStore {
	return &BalanceStore{db: db}
}

// Compute returns sum(points_awarded) - sum(points_spent) for the kid.
// A kid with no ledger rows has balance 0. The kid row itself is not
// consulted, so the balance of a deleted kid's orphaned ledger still
// computes.
func (s *BalanceStore) Compute(kidID string) (int, error) {
	earned, spent, err := s.sums(kidID)
	if err != nil {
		return 0, err
	}
	return earned - spent, nil
}

// Breakdown returns earned/spent totals alongside the balance, with the
// kid's display name ("Unknown" when the kid row is gone).
func (s *BalanceStore) Breakdown(kidID string) (*model.PointBalance, error) {
	earned, spent, err := s.sums(kidID)
	if err != nil {
		return nil, err
	}

	name := "Unknown"
	err = s.db.QueryRow(`SELECT name FROM kids WHERE id = ?`, kidID).Scan(&name)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("get kid name: %w", err)
	}

	return &model.PointBalance{
		KidID:       kidID,
		KidName:     name,
		TotalEarned: earned,
		TotalSpent:  spent,
		Balance:     earned - spent,
	}, nil
}

// All returns a breakdown per kid, in the kids' sort order.
func (s *BalanceStore) All() ([]model.PointBalance, error) {
	rows, err := s.db.Query(`SELECT id, name FROM kids ORDER BY sort_order ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list kids: %w", err)
	}
	defer rows.Close()

	type kidInfo struct {
		id   string
		name string
	}
	var kids []kidInfo
	for rows.Next() {
		var k kidInfo
		if err := rows.Scan(&k.id, &k.name); err != nil {
			return nil, fmt.Errorf("scan kid: %w", err)
		}
		kids = append(kids, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kids: %w", err)
	}
	rows.Close()

	var balances []model.PointBalance
	for _, k := range kids {
		earned, spent, err := s.sums(k.id)
		if err != nil {
			return nil, err
		}
		balances = append(balances, model.PointBalance{
			KidID:       k.id,
			KidName:     k.name,
			TotalEarned: earned,
			TotalSpent:  spent,
			Balance:     earned - spent,
		})
	}
	return balances, nil
}

func (s *BalanceStore) sums(kidID string) (earned, spent int, err error) {
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(points_awarded), 0) FROM task_completions WHERE kid_id = ?`,
		kidID,
	).Scan(&earned)
	if err != nil {
		return 0, 0, fmt.Errorf("sum points awarded: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(points_spent), 0) FROM redemptions WHERE kid_id = ?`,
		kidID,
	).Scan(&spent)
	if err != nil {
		return 0, 0, fmt.Errorf("sum points spent: %w", err)
	}
	return earned, spent, nil
}
