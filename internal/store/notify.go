package store

import "sync"

// Table identifies one of the entity tables for change notifications.
type Table string

const (
	TableHouseholds  Table = "households"
	TableKids        Table = "kids"
	TableTasks       Table = "tasks"
	TableCompletions Table = "task_completions"
	TableRewards     Table = "rewards"
	TableRedemptions Table = "redemptions"
	TableSettings    Table = "settings"
)

// EntityTables lists the six entity tables touched by bulk lifecycle
// operations, in clear/insert order.
var EntityTables = []Table{
	TableHouseholds,
	TableKids,
	TableTasks,
	TableCompletions,
	TableRewards,
	TableRedemptions,
}

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionReplace marks a bulk rewrite of a whole table (import, reset).
	ActionReplace Action = "replace"
)

// Change describes one committed mutation. ID is empty for bulk replaces.
type Change struct {
	Table  Table
	Action Action
	ID     string
}

// Notifier fans committed changes out to subscribers. Stores publish on it
// after a statement or enclosing transaction has committed, never before,
// so a handler re-reading the database always sees the mutation applied.
type Notifier struct {
	mu   sync.RWMutex
	subs map[int]func(Change)
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Change))}
}

// Subscribe registers fn and returns a cancel function. After cancel
// returns, fn is never called again.
func (n *Notifier) Subscribe(fn func(Change)) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Publish delivers c to every subscriber. Handlers run synchronously on the
// caller's goroutine, outside the registry lock so they may subscribe or
// cancel. A nil Notifier is valid and drops every change.
func (n *Notifier) Publish(c Change) {
	if n == nil {
		return
	}

	n.mu.RLock()
	fns := make([]func(Change), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
