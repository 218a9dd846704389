// Package lifecycle implements the bulk operations over the whole store:
// first-run seeding, JSON export, atomic import, and full reset.
package lifecycle

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rewardjar/rewardjar/internal/model"
	"github.com/rewardjar/rewardjar/internal/store"
)

type Service struct {
	db         *sql.DB
	households *store.HouseholdStore
	kids       *store.KidStore
	tasks      *store.TaskStore
	rewards    *store.RewardStore
	notify     *store.Notifier
	logger     *slog.Logger
}

func New(
	db *sql.DB,
	households *store.HouseholdStore,
	kids *store.KidStore,
	tasks *store.TaskStore,
	rewards *store.RewardStore,
	notify *store.Notifier,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:         db,
		households: households,
		kids:       kids,
		tasks:      tasks,
		rewards:    rewards,
		notify:     notify,
		logger:     logger,
	}
}

// SeedIfEmpty populates the default household, kids, tasks, and rewards in
// one transaction when no household exists. Calling it again is a no-op,
// so it is safe on every startup.
func (s *Service) SeedIfEmpty() error {
	h, err := s.households.Get()
	if err != nil {
		return err
	}
	if h != nil {
		return nil
	}

	createdAt := time.Now().UTC().UnixMilli()
	err = store.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`INSERT INTO households (id, name) VALUES (?, ?)`,
			seedHousehold.ID, seedHousehold.Name,
		); err != nil {
			return fmt.Errorf("seed household: %w", err)
		}

		for _, k := range seedKids {
			if _, err := tx.Exec(
				`INSERT INTO kids (id, household_id, name, avatar, color, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
				k.ID, k.HouseholdID, k.Name, k.Avatar, k.Color, k.SortOrder,
			); err != nil {
				return fmt.Errorf("seed kid %q: %w", k.Name, err)
			}
		}

		for _, t := range seedTasks {
			var assignedKid sql.NullString
			if t.AssignedKidID != nil {
				assignedKid = sql.NullString{String: *t.AssignedKidID, Valid: true}
			}
			if _, err := tx.Exec(
				`INSERT INTO tasks (id, household_id, title, points, icon, category, assigned_kid_id, active, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)`,
				t.ID, t.HouseholdID, t.Title, t.Points, t.Icon, t.Category, assignedKid, createdAt,
			); err != nil {
				return fmt.Errorf("seed task %q: %w", t.Title, err)
			}
		}

		for _, r := range seedRewards {
			if _, err := tx.Exec(
				`INSERT INTO rewards (id, household_id, title, points_cost, icon, category, active, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, 1, ?)`,
				r.ID, r.HouseholdID, r.Title, r.PointsCost, r.Icon, r.Category, createdAt,
			); err != nil {
				return fmt.Errorf("seed reward %q: %w", r.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishReplaceAll()
	s.logger.Info("seeded database",
		"kids", len(seedKids), "tasks", len(seedTasks), "rewards", len(seedRewards))
	return nil
}

// Export serializes all six tables into a pretty-printed JSON snapshot.
func (s *Service) Export() ([]byte, error) {
	var snap model.Snapshot

	var g errgroup.Group
	g.Go(func() error {
		var err error
		snap.Households, err = s.households.List()
		return err
	})
	g.Go(func() error {
		var err error
		snap.Kids, err = s.kids.ListAll()
		return err
	})
	g.Go(func() error {
		var err error
		snap.Tasks, err = s.tasks.ListAll()
		return err
	})
	g.Go(func() error {
		var err error
		snap.Completions, err = s.tasks.ListAllCompletions()
		return err
	})
	g.Go(func() error {
		var err error
		snap.Rewards, err = s.rewards.ListAll()
		return err
	})
	g.Go(func() error {
		var err error
		snap.Redemptions, err = s.rewards.ListAllRedemptions()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Import replaces the contents of all six tables with the snapshot, in one
// transaction. A payload that does not parse fails before any table is
// touched. Missing snapshot keys leave that table empty; unknown keys are
// ignored.
func (s *Service) Import(data []byte) error {
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", store.ErrParse, err)
	}

	err := store.WithTx(s.db, func(tx *sql.Tx) error {
		if err := clearAll(tx); err != nil {
			return err
		}
		return insertSnapshot(tx, &snap)
	})
	if err != nil {
		return err
	}

	s.publishReplaceAll()
	s.logger.Info("imported snapshot",
		"households", len(snap.Households), "kids", len(snap.Kids),
		"tasks", len(snap.Tasks), "completions", len(snap.Completions),
		"rewards", len(snap.Rewards), "redemptions", len(snap.Redemptions))
	return nil
}

// Reset clears all six tables in one transaction and reseeds the defaults.
func (s *Service) Reset() error {
	err := store.WithTx(s.db, func(tx *sql.Tx) error {
		return clearAll(tx)
	})
	if err != nil {
		return err
	}

	s.publishReplaceAll()
	s.logger.Info("reset database")
	return s.SeedIfEmpty()
}

func clearAll(tx *sql.Tx) error {
	for _, table := range store.EntityTables {
		if _, err := tx.Exec(`DELETE FROM ` + string(table)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func insertSnapshot(tx *sql.Tx, snap *model.Snapshot) error {
	for _, h := range snap.Households {
		if _, err := tx.Exec(`INSERT INTO households (id, name) VALUES (?, ?)`, h.ID, h.Name); err != nil {
			return fmt.Errorf("import household %s: %w", h.ID, err)
		}
	}

	for _, k := range snap.Kids {
		if _, err := tx.Exec(
			`INSERT INTO kids (id, household_id, name, avatar, color, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
			k.ID, k.HouseholdID, k.Name, k.Avatar, k.Color, k.SortOrder,
		); err != nil {
			return fmt.Errorf("import kid %s: %w", k.ID, err)
		}
	}

	for _, t := range snap.Tasks {
		var assignedKid sql.NullString
		if t.AssignedKidID != nil {
			assignedKid = sql.NullString{String: *t.AssignedKidID, Valid: true}
		}
		var active int
		if t.Active {
			active = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO tasks (id, household_id, title, points, icon, category, assigned_kid_id, active, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.HouseholdID, t.Title, t.Points, t.Icon, t.Category, assignedKid, active, t.CreatedAt.UnixMilli(),
		); err != nil {
			return fmt.Errorf("import task %s: %w", t.ID, err)
		}
	}

	for _, c := range snap.Completions {
		if _, err := tx.Exec(
			`INSERT INTO task_completions (id, task_id, kid_id, points_awarded, completed_at, note)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.TaskID, c.KidID, c.PointsAwarded, c.CompletedAt.UnixMilli(), c.Note,
		); err != nil {
			return fmt.Errorf("import completion %s: %w", c.ID, err)
		}
	}

	for _, r := range snap.Rewards {
		var active int
		if r.Active {
			active = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO rewards (id, household_id, title, points_cost, icon, category, active, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.HouseholdID, r.Title, r.PointsCost, r.Icon, r.Category, active, r.CreatedAt.UnixMilli(),
		); err != nil {
			return fmt.Errorf("import reward %s: %w", r.ID, err)
		}
	}

	for _, r := range snap.Redemptions {
		if _, err := tx.Exec(
			`INSERT INTO redemptions (id, reward_id, kid_id, points_spent, redeemed_at) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.RewardID, r.KidID, r.PointsSpent, r.RedeemedAt.UnixMilli(),
		); err != nil {
			return fmt.Errorf("import redemption %s: %w", r.ID, err)
		}
	}
	return nil
}

func (s *Service) publishReplaceAll() {
	for _, table := range store.EntityTables {
		s.notify.Publish(store.Change{Table: table, Action: store.ActionReplace})
	}
}
