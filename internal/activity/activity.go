// Package activity merges the completion and redemption ledgers into one
// enriched reverse-chronological feed.
package activity

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rewardjar/rewardjar/internal/model"
	"github.com/rewardjar/rewardjar/internal/store"
)

// Placeholders used when a referenced row no longer resolves. Deleting a
// kid, task, or reward must never break the feed.
const (
	fallbackCompletionIcon = "⭐"     // star
	fallbackRedemptionIcon = "\U0001F381" // wrapped gift
	fallbackKidName        = "Kid"
	fallbackRewardTitle    = "Reward"
	fallbackTaskTitle      = "Quick Add"
)

// Tables is the table set a feed query reads, for live subscriptions.
var Tables = []store.Table{
	store.TableKids,
	store.TableTasks,
	store.TableCompletions,
	store.TableRewards,
	store.TableRedemptions,
}

type Service struct {
	kids    *store.KidStore
	tasks   *store.TaskStore
	rewards *store.RewardStore
}

func New(kids *store.KidStore, tasks *store.TaskStore, rewards *store.RewardStore) *Service {
	return &Service{kids: kids, tasks: tasks, rewards: rewards}
}

type FeedOptions struct {
	Limit  int
	Offset int
	// KidID scopes the feed to one kid. The filter is applied before Total
	// is counted, so Total reflects the scoped feed, not the global one.
	KidID string
}

type Feed struct {
	Items []model.ActivityItem
	Total int
}

// Feed merges both ledgers in memory, enriches each entry, and paginates
// the result. Pagination happens after the merge because the total ordering
// spans two tables.
//
// Sort is descending by timestamp and stable: for equal timestamps,
// completions come before redemptions, each in insertion order.
func (s *Service) Feed(opts FeedOptions) (*Feed, error) {
	var (
		completions []model.TaskCompletion
		redemptions []model.Redemption
		kids        []model.Kid
		tasks       []model.Task
		rewards     []model.Reward
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		completions, err = s.tasks.ListAllCompletions()
		return err
	})
	g.Go(func() error {
		var err error
		redemptions, err = s.rewards.ListAllRedemptions()
		return err
	})
	g.Go(func() error {
		var err error
		kids, err = s.kids.ListAll()
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.ListAll()
		return err
	})
	g.Go(func() error {
		var err error
		rewards, err = s.rewards.ListAll()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kidsByID := make(map[string]model.Kid, len(kids))
	for _, k := range kids {
		kidsByID[k.ID] = k
	}
	tasksByID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		tasksByID[t.ID] = t
	}
	rewardsByID := make(map[string]model.Reward, len(rewards))
	for _, r := range rewards {
		rewardsByID[r.ID] = r
	}

	items := make([]model.ActivityItem, 0, len(completions)+len(redemptions))
	for _, c := range completions {
		items = append(items, enrichCompletion(c, tasksByID, kidsByID))
	}
	for _, r := range redemptions {
		items = append(items, enrichRedemption(r, rewardsByID, kidsByID))
	}

	if opts.KidID != "" {
		scoped := items[:0]
		for _, item := range items {
			if item.KidID == opts.KidID {
				scoped = append(scoped, item)
			}
		}
		items = scoped
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	total := len(items)
	return &Feed{Items: page(items, opts.Limit, opts.Offset), Total: total}, nil
}

func enrichCompletion(c model.TaskCompletion, tasks map[string]model.Task, kids map[string]model.Kid) model.ActivityItem {
	icon := fallbackCompletionIcon
	title := fallbackTaskTitle
	if c.Note != "" {
		title = c.Note
	}
	if task, ok := tasks[c.TaskID]; ok {
		icon = task.Icon
		title = task.Title
	}

	kidName := fallbackKidName
	if kid, ok := kids[c.KidID]; ok {
		kidName = kid.Name
	}

	return model.ActivityItem{
		ID:          c.ID,
		Type:        model.ActivityCompletion,
		KidID:       c.KidID,
		Icon:        icon,
		Description: kidName + " completed " + title,
		Points:      c.PointsAwarded,
		Timestamp:   c.CompletedAt,
	}
}

func enrichRedemption(r model.Redemption, rewards map[string]model.Reward, kids map[string]model.Kid) model.ActivityItem {
	icon := fallbackRedemptionIcon
	title := fallbackRewardTitle
	if reward, ok := rewards[r.RewardID]; ok {
		icon = reward.Icon
		title = reward.Title
	}

	kidName := fallbackKidName
	if kid, ok := kids[r.KidID]; ok {
		kidName = kid.Name
	}

	return model.ActivityItem{
		ID:          r.ID,
		Type:        model.ActivityRedemption,
		KidID:       r.KidID,
		Icon:        icon,
		Description: kidName + " redeemed " + title,
		Points:      -r.PointsSpent,
		Timestamp:   r.RedeemedAt,
	}
}

func page(items []model.ActivityItem, limit, offset int) []model.ActivityItem {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
