package store

import (
	"database/sql"
	"fmt"

	"github.com/rewardjar/rewardjar/internal/model"
)

type RewardStore struct {
	db     *sql.DB
	notify *Notifier
}

func NewRewardStore(db *sql.DB, notify *Notifier) *RewardStore {
	return &RewardStore{db: db, notify: notify}
}

// --- Reward methods ---

func scanRewardRow(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	var active int
	var createdAt int64

	err := scanner.Scan(
		&r.ID, &r.HouseholdID, &r.Title, &r.PointsCost, &r.Icon,
		&r.Category, &active, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	r.Active = active != 0
	r.CreatedAt = fromMillis(createdAt)
	return &r, nil
}

const rewardCols = `id, household_id, title, points_cost, icon, category, active, created_at`

func validateReward(title string, pointsCost int) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if pointsCost <= 0 {
		return &ValidationError{Field: "points_cost", Reason: "must be positive"}
	}
	return nil
}

func (s *RewardStore) Create(r *model.Reward) error {
	if err := validateReward(r.Title, r.PointsCost); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now()
	}

	dup, err := idExists(s.db, "rewards", r.ID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("reward %s: %w", r.ID, ErrDuplicateKey)
	}

	var active int
	if r.Active {
		active = 1
	}

	_, err = s.db.Exec(
		`INSERT INTO rewards (id, household_id, title, points_cost, icon, category, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.HouseholdID, r.Title, r.PointsCost, r.Icon, r.Category, active, toMillis(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert reward: %w", err)
	}

	s.notify.Publish(Change{Table: TableRewards, Action: ActionCreate, ID: r.ID})
	return nil
}

func (s *RewardStore) GetByID(id string) (*model.Reward, error) {
	row := s.db.QueryRow(`SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanRewardRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

func (s *RewardStore) List(householdID string) ([]model.Reward, error) {
	return s.queryRewards(`SELECT `+rewardCols+` FROM rewards WHERE household_id = ? ORDER BY rowid`, householdID)
}

func (s *RewardStore) ListActive(householdID string) ([]model.Reward, error) {
	return s.queryRewards(
		`SELECT `+rewardCols+` FROM rewards WHERE household_id = ? AND active = 1 ORDER BY rowid`,
		householdID,
	)
}

func (s *RewardStore) ListAll() ([]model.Reward, error) {
	return s.queryRewards(`SELECT ` + rewardCols + ` FROM rewards ORDER BY rowid`)
}

func (s *RewardStore) queryRewards(query string, args ...any) ([]model.Reward, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanRewardRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

func (s *RewardStore) Update(id, title string, pointsCost int, icon, category string) (*model.Reward, error) {
	if err := validateReward(title, pointsCost); err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`UPDATE rewards SET title = ?, points_cost = ?, icon = ?, category = ? WHERE id = ?`,
		title, pointsCost, icon, category, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("reward %s: %w", id, ErrNotFound)
	}

	s.notify.Publish(Change{Table: TableRewards, Action: ActionUpdate, ID: id})
	return s.GetByID(id)
}

func (s *RewardStore) SetActive(id string, active bool) (*model.Reward, error) {
	var a int
	if active {
		a = 1
	}

	result, err := s.db.Exec(`UPDATE rewards SET active = ? WHERE id = ?`, a, id)
	if err != nil {
		return nil, fmt.Errorf("set reward active: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("reward %s: %w", id, ErrNotFound)
	}

	s.notify.Publish(Change{Table: TableRewards, Action: ActionUpdate, ID: id})
	return s.GetByID(id)
}

func (s *RewardStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		s.notify.Publish(Change{Table: TableRewards, Action: ActionDelete, ID: id})
	}
	return nil
}

// --- Redemption methods ---

func scanRedemption(scanner interface{ Scan(...any) error }) (*model.Redemption, error) {
	var r model.Redemption
	var redeemedAt int64

	err := scanner.Scan(&r.ID, &r.RewardID, &r.KidID, &r.PointsSpent, &redeemedAt)
	if err != nil {
		return nil, err
	}

	r.RedeemedAt = fromMillis(redeemedAt)
	return &r, nil
}

const redemptionCols = `id, reward_id, kid_id, points_spent, redeemed_at`

// CreateRedemption appends a ledger row as given. The store does not check
// affordability; that policy lives at the call site.
func (s *RewardStore) CreateRedemption(r *model.Redemption) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	if r.RedeemedAt.IsZero() {
		r.RedeemedAt = now()
	}

	dup, err := idExists(s.db, "redemptions", r.ID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("redemption %s: %w", r.ID, ErrDuplicateKey)
	}

	_, err = s.db.Exec(
		`INSERT INTO redemptions (id, reward_id, kid_id, points_spent, redeemed_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.RewardID, r.KidID, r.PointsSpent, toMillis(r.RedeemedAt),
	)
	if err != nil {
		return fmt.Errorf("insert redemption: %w", err)
	}

	s.notify.Publish(Change{Table: TableRedemptions, Action: ActionCreate, ID: r.ID})
	return nil
}

// Redeem records a redemption of the given reward, snapshotting its current
// cost. Later cost edits leave past redemptions untouched.
func (s *RewardStore) Redeem(rewardID, kidID string) (*model.Redemption, error) {
	reward, err := s.GetByID(rewardID)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, fmt.Errorf("reward %s: %w", rewardID, ErrNotFound)
	}

	r := &model.Redemption{
		RewardID:    rewardID,
		KidID:       kidID,
		PointsSpent: reward.PointsCost,
	}
	if err := s.CreateRedemption(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RewardStore) ListRedemptionsForKid(kidID string) ([]model.Redemption, error) {
	return s.queryRedemptions(
		`SELECT `+redemptionCols+` FROM redemptions WHERE kid_id = ? ORDER BY rowid`,
		kidID,
	)
}

func (s *RewardStore) ListRedemptionsForReward(rewardID string) ([]model.Redemption, error) {
	return s.queryRedemptions(
		`SELECT `+redemptionCols+` FROM redemptions WHERE reward_id = ? ORDER BY rowid`,
		rewardID,
	)
}

func (s *RewardStore) ListAllRedemptions() ([]model.Redemption, error) {
	return s.queryRedemptions(`SELECT ` + redemptionCols + ` FROM redemptions ORDER BY rowid`)
}

func (s *RewardStore) queryRedemptions(query string, args ...any) ([]model.Redemption, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []model.Redemption
	for rows.Next() {
		r, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, *r)
	}
	return redemptions, rows.Err()
}

// DeleteRedemption is the undo primitive for a mis-recorded redemption.
func (s *RewardStore) DeleteRedemption(id string) error {
	result, err := s.db.Exec(`DELETE FROM redemptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete redemption: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		s.notify.Publish(Change{Table: TableRedemptions, Action: ActionDelete, ID: id})
	}
	return nil
}
