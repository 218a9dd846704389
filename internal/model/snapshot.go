package model

// Snapshot is the export/import file shape. Missing keys on import are
// treated as empty tables; unknown keys are ignored.
type Snapshot struct {
	Households  []Household      `json:"households"`
	Kids        []Kid            `json:"kids"`
	Tasks       []Task           `json:"tasks"`
	Completions []TaskCompletion `json:"completions"`
	Rewards     []Reward         `json:"rewards"`
	Redemptions []Redemption     `json:"redemptions"`
}
