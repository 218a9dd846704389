package model

import "time"

type ActivityType string

const (
	ActivityCompletion ActivityType = "completion"
	ActivityRedemption ActivityType = "redemption"
)

// ActivityItem is one enriched row of the merged completion/redemption feed.
// Points is signed: positive for completions, negative for redemptions.
type ActivityItem struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	KidID       string       `json:"kid_id"`
	Icon        string       `json:"icon"`
	Description string       `json:"description"`
	Points      int          `json:"points"`
	Timestamp   time.Time    `json:"timestamp"`
}
