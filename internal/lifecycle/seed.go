package lifecycle

import "github.com/rewardjar/rewardjar/internal/model"

// SeedHouseholdID is the fixed id of the household created on first run.
const SeedHouseholdID = "household-1"

func strPtr(s string) *string { return &s }

var seedHousehold = model.Household{
	ID:   SeedHouseholdID,
	Name: "Home",
}

var seedKids = []model.Kid{
	{ID: "kid-1", HouseholdID: SeedHouseholdID, Name: "Daniel", Avatar: "\U0001F466", Color: "#4F8EF7", SortOrder: 0},
	{ID: "kid-2", HouseholdID: SeedHouseholdID, Name: "Emma", Avatar: "\U0001F467", Color: "#F76FAB", SortOrder: 1},
}

var seedTasks = []model.Task{
	{ID: "task-1", HouseholdID: SeedHouseholdID, Title: "Bedtime on time", Points: 2, Icon: "\U0001F319", Category: model.CategoryHousehold, Active: true},
	{ID: "task-2", HouseholdID: SeedHouseholdID, Title: "Pick up toys", Points: 2, Icon: "\U0001F9F8", Category: model.CategoryHousehold, Active: true},
	{ID: "task-3", HouseholdID: SeedHouseholdID, Title: "Brush teeth", Points: 1, Icon: "\U0001FAA5", Category: model.CategoryHousehold, Active: true},
	{ID: "task-4", HouseholdID: SeedHouseholdID, Title: "Help set table", Points: 2, Icon: "\U0001F37D️", Category: model.CategoryHousehold, Active: true},
	{ID: "task-5", HouseholdID: SeedHouseholdID, Title: "Read a book", Points: 3, Icon: "\U0001F4DA", Category: model.CategoryHousehold, Active: true},
	{ID: "task-6", HouseholdID: SeedHouseholdID, Title: "Practice piano", Points: 3, Icon: "\U0001F3B9", Category: model.CategoryPersonal, AssignedKidID: strPtr("kid-1"), Active: true},
	{ID: "task-7", HouseholdID: SeedHouseholdID, Title: "Clean room", Points: 5, Icon: "\U0001F9F9", Category: model.CategoryPersonal, Active: true},
}

var seedRewards = []model.Reward{
	{ID: "reward-1", HouseholdID: SeedHouseholdID, Title: "30 min iPad", PointsCost: 30, Icon: "\U0001F4F1", Category: "screen-time", Active: true},
	{ID: "reward-2", HouseholdID: SeedHouseholdID, Title: "Choose dessert", PointsCost: 25, Icon: "\U0001F370", Category: "treats", Active: true},
	{ID: "reward-3", HouseholdID: SeedHouseholdID, Title: "Small toy", PointsCost: 75, Icon: "\U0001F381", Category: "toys", Active: true},
	{ID: "reward-4", HouseholdID: SeedHouseholdID, Title: "Family outing choice", PointsCost: 150, Icon: "\U0001F3A1", Category: "experiences", Active: true},
	{ID: "reward-5", HouseholdID: SeedHouseholdID, Title: "Extra bedtime story", PointsCost: 10, Icon: "\U0001F4D6", Category: "treats", Active: true},
}
