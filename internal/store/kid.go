package store

import (
	"database/sql"
	"fmt"

	"github.com/rewardjar/rewardjar/internal/model"
)

type KidStore struct {
	db     *sql.DB
	notify *Notifier
}

func NewKidStore(db *sql.DB, notify *Notifier) *KidStore {
	return &KidStore{db: db, notify: notify}
}

func scanKid(scanner interface{ Scan(...any) error }) (*model.Kid, error) {
	var k model.Kid
	err := scanner.Scan(&k.ID, &k.HouseholdID, &k.Name, &k.Avatar, &k.Color, &k.SortOrder)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

const kidCols = `id, household_id, name, avatar, color, sort_order`

// Create inserts a kid at the end of the household's sort order. An empty
// id is replaced with a fresh one; k is updated with the assigned values.
func (s *KidStore) Create(k *model.Kid) error {
	if k.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if k.ID == "" {
		k.ID = NewID()
	}

	dup, err := idExists(s.db, "kids", k.ID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("kid %s: %w", k.ID, ErrDuplicateKey)
	}

	var maxOrder int
	err = s.db.QueryRow(
		`SELECT COALESCE(MAX(sort_order), -1) FROM kids WHERE household_id = ?`,
		k.HouseholdID,
	).Scan(&maxOrder)
	if err != nil {
		return fmt.Errorf("query max sort_order: %w", err)
	}
	k.SortOrder = maxOrder + 1

	_, err = s.db.Exec(
		`INSERT INTO kids (id, household_id, name, avatar, color, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
		k.ID, k.HouseholdID, k.Name, k.Avatar, k.Color, k.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("insert kid: %w", err)
	}

	s.notify.Publish(Change{Table: TableKids, Action: ActionCreate, ID: k.ID})
	return nil
}

func (s *KidStore) GetByID(id string) (*model.Kid, error) {
	row := s.db.QueryRow(`SELECT `+kidCols+` FROM kids WHERE id = ?`, id)
	k, err := scanKid(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get kid: %w", err)
	}
	return k, nil
}

// List returns the household's kids in sort order. Orders need not be
// contiguous; the ordering is stable.
func (s *KidStore) List(householdID string) ([]model.Kid, error) {
	rows, err := s.db.Query(
		`SELECT `+kidCols+` FROM kids WHERE household_id = ? ORDER BY sort_order ASC, rowid ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list kids: %w", err)
	}
	defer rows.Close()
	return collectKids(rows)
}

func (s *KidStore) ListAll() ([]model.Kid, error) {
	rows, err := s.db.Query(`SELECT ` + kidCols + ` FROM kids ORDER BY sort_order ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list all kids: %w", err)
	}
	defer rows.Close()
	return collectKids(rows)
}

func collectKids(rows *sql.Rows) ([]model.Kid, error) {
	var kids []model.Kid
	for rows.Next() {
		k, err := scanKid(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kid: %w", err)
		}
		kids = append(kids, *k)
	}
	return kids, rows.Err()
}

func (s *KidStore) Update(id, name, avatar, color string) (*model.Kid, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	result, err := s.db.Exec(
		`UPDATE kids SET name = ?, avatar = ?, color = ? WHERE id = ?`,
		name, avatar, color, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update kid: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("kid %s: %w", id, ErrNotFound)
	}

	s.notify.Publish(Change{Table: TableKids, Action: ActionUpdate, ID: id})
	return s.GetByID(id)
}

// UpdateOrder rewrites the sort order to match the given id sequence.
func (s *KidStore) UpdateOrder(ids []string) error {
	err := WithTx(s.db, func(tx *sql.Tx) error {
		for i, id := range ids {
			if _, err := tx.Exec(`UPDATE kids SET sort_order = ? WHERE id = ?`, i, id); err != nil {
				return fmt.Errorf("update sort order for %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify.Publish(Change{Table: TableKids, Action: ActionUpdate})
	return nil
}

// Delete removes the kid. It is idempotent and leaves the kid's ledger rows
// in place; feed and balance lookups tolerate the orphans.
func (s *KidStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM kids WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete kid: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		s.notify.Publish(Change{Table: TableKids, Action: ActionDelete, ID: id})
	}
	return nil
}
