package model

type Household struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Kid struct {
	ID          string `json:"id"`
	HouseholdID string `json:"household_id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Color       string `json:"color"`
	SortOrder   int    `json:"sort_order"`
}
