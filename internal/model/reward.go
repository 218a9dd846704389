package model

import "time"

type Reward struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	Title       string    `json:"title"`
	PointsCost  int       `json:"points_cost"`
	Icon        string    `json:"icon"`
	Category    string    `json:"category"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Redemption is an append-only ledger row. PointsSpent is a snapshot of the
// reward's cost at redemption time; later cost edits never touch it.
type Redemption struct {
	ID          string    `json:"id"`
	RewardID    string    `json:"reward_id"`
	KidID       string    `json:"kid_id"`
	PointsSpent int       `json:"points_spent"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}

// PointBalance is derived from the two ledger tables on every read.
// It is never persisted, so the ledger and the balance cannot drift apart.
type PointBalance struct {
	KidID       string `json:"kid_id"`
	KidName     string `json:"kid_name"`
	TotalEarned int    `json:"total_earned"`
	TotalSpent  int    `json:"total_spent"`
	Balance     int    `json:"balance"`
}
