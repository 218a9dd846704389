package store

import (
	"database/sql"
	"fmt"

	"github.com/rewardjar/rewardjar/internal/model"
)

type HouseholdStore struct {
	db     *sql.DB
	notify *Notifier
}

func NewHouseholdStore(db *sql.DB, notify *Notifier) *HouseholdStore {
	return &HouseholdStore{db: db, notify: notify}
}

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	if err := scanner.Scan(&h.ID, &h.Name); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *HouseholdStore) Create(h *model.Household) error {
	if h.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if h.ID == "" {
		h.ID = NewID()
	}

	dup, err := idExists(s.db, "households", h.ID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("household %s: %w", h.ID, ErrDuplicateKey)
	}

	_, err = s.db.Exec(`INSERT INTO households (id, name) VALUES (?, ?)`, h.ID, h.Name)
	if err != nil {
		return fmt.Errorf("insert household: %w", err)
	}

	s.notify.Publish(Change{Table: TableHouseholds, Action: ActionCreate, ID: h.ID})
	return nil
}

// Get returns the household, or nil when none exists yet. Exactly one is
// expected in normal operation.
func (s *HouseholdStore) Get() (*model.Household, error) {
	row := s.db.QueryRow(`SELECT id, name FROM households LIMIT 1`)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

func (s *HouseholdStore) GetByID(id string) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT id, name FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

func (s *HouseholdStore) List() ([]model.Household, error) {
	rows, err := s.db.Query(`SELECT id, name FROM households ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()

	var households []model.Household
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, *h)
	}
	return households, rows.Err()
}

func (s *HouseholdStore) Update(id, name string) (*model.Household, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	result, err := s.db.Exec(`UPDATE households SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("update household: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("household %s: %w", id, ErrNotFound)
	}

	s.notify.Publish(Change{Table: TableHouseholds, Action: ActionUpdate, ID: id})
	return s.GetByID(id)
}
