// Package rewardjar is a local-first chore and reward tracker data core:
// kids earn points by completing tasks and spend them redeeming rewards.
// Balances are always derived from the two ledger tables, the activity feed
// merges both ledgers, and live queries re-deliver results whenever a table
// they read changes. Persistence is an embedded SQLite database.
//
// The package exposes no network surface; a UI layer drives it directly:
//
//	app, err := rewardjar.Open(rewardjar.Config{Path: path})
//	...
//	if err := app.Lifecycle.SeedIfEmpty(); err != nil { ... }
//	balance, err := app.Balances.Compute(kidID)
package rewardjar

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rewardjar/rewardjar/internal/activity"
	"github.com/rewardjar/rewardjar/internal/database"
	"github.com/rewardjar/rewardjar/internal/lifecycle"
	"github.com/rewardjar/rewardjar/internal/live"
	"github.com/rewardjar/rewardjar/internal/logging"
	"github.com/rewardjar/rewardjar/internal/session"
	"github.com/rewardjar/rewardjar/internal/store"
)

type Config struct {
	// Path is the SQLite database file. Empty means DefaultDBPath();
	// ":memory:" is accepted for throwaway stores.
	Path string

	// Logger overrides the default slog setup. When nil, a logger is
	// built from LogLevel ("debug", "info", "warn", "error").
	Logger   *slog.Logger
	LogLevel string
}

// App wires the data core together. All mutation goes through the stores;
// every committed change fans out through Notifier to the Live registry.
type App struct {
	Households *store.HouseholdStore
	Kids       *store.KidStore
	Tasks      *store.TaskStore
	Rewards    *store.RewardStore
	Balances   *store.BalanceStore
	Settings   *store.SettingsStore
	Session    *session.Store
	Activity   *activity.Service
	Lifecycle  *lifecycle.Service
	Live       *live.Registry
	Notifier   *store.Notifier

	db     *sql.DB
	logger *slog.Logger
}

// DefaultDBPath returns the database location under the user's home
// directory.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".rewardjar.db"), nil
}

// Open opens (creating and migrating if needed) the database and wires up
// the stores, aggregators, and live-query registry. It does not seed;
// callers run Lifecycle.SeedIfEmpty on startup.
func Open(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Setup(cfg.LogLevel)
	}

	path := cfg.Path
	if path == "" {
		var err error
		path, err = DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}

	notifier := store.NewNotifier()

	households := store.NewHouseholdStore(db, notifier)
	kids := store.NewKidStore(db, notifier)
	tasks := store.NewTaskStore(db, notifier)
	rewards := store.NewRewardStore(db, notifier)
	settings := store.NewSettingsStore(db, notifier)

	registry := live.NewRegistry(logger)
	registry.Bind(notifier)

	return &App{
		Households: households,
		Kids:       kids,
		Tasks:      tasks,
		Rewards:    rewards,
		Balances:   store.NewBalanceStore(db),
		Settings:   settings,
		Session:    session.New(settings),
		Activity:   activity.New(kids, tasks, rewards),
		Lifecycle:  lifecycle.New(db, households, kids, tasks, rewards, notifier, logger),
		Live:       registry,
		Notifier:   notifier,
		db:         db,
		logger:     logger,
	}, nil
}

// Close tears down the live registry and closes the database.
func (a *App) Close() error {
	a.Live.Close()
	return a.db.Close()
}

// Subscribe registers a live query against the tables it reads. The query
// runs once immediately; afterwards it is re-executed whenever a committed
// mutation touches one of the tables, with the fresh result delivered on
// the subscription channel.
func Subscribe[T any](a *App, tables []store.Table, query func() (T, error)) *live.Subscription[T] {
	return live.Subscribe(a.Live, tables, query)
}
