package model

import "time"

type TaskCategory string

const (
	CategoryHousehold TaskCategory = "household"
	CategoryPersonal  TaskCategory = "personal"
)

// ManualTaskID is the sentinel task id recorded on completions created by
// quick-add points. It never resolves to a real task row; the activity feed
// falls back to the completion's note when it sees it.
const ManualTaskID = "manual"

type Task struct {
	ID            string       `json:"id"`
	HouseholdID   string       `json:"household_id"`
	Title         string       `json:"title"`
	Points        int          `json:"points"`
	Icon          string       `json:"icon"`
	Category      TaskCategory `json:"category"`
	AssignedKidID *string      `json:"assigned_kid_id,omitempty"`
	Active        bool         `json:"active"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TaskCompletion is an append-only ledger row. PointsAwarded is fixed at
// creation time and never re-read from the task.
type TaskCompletion struct {
	ID            string    `json:"id"`
	TaskID        string    `json:"task_id"`
	KidID         string    `json:"kid_id"`
	PointsAwarded int       `json:"points_awarded"`
	CompletedAt   time.Time `json:"completed_at"`
	Note          string    `json:"note,omitempty"`
}
