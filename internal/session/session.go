// Package session persists collaborator-layer selection state in the
// settings table. The core queries never depend on it; kid ids are always
// passed explicitly.
package session

import (
	"errors"

	"github.com/rewardjar/rewardjar/internal/store"
)

const selectedKidKey = "selected_kid_id"

type Store struct {
	settings *store.SettingsStore
}

func New(settings *store.SettingsStore) *Store {
	return &Store{settings: settings}
}

// SelectedKid returns the persisted selection, or "" when none is set.
// The caller is responsible for falling back when the kid no longer exists.
func (s *Store) SelectedKid() (string, error) {
	id, err := s.settings.Get(selectedKidKey)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) SetSelectedKid(id string) error {
	return s.settings.Set(selectedKidKey, id)
}

func (s *Store) ClearSelectedKid() error {
	return s.settings.Delete(selectedKidKey)
}
