// Package live keeps registered queries current. A subscription pairs a
// query function with the set of tables it reads; whenever a committed
// mutation touches one of those tables, the query is re-executed and the
// fresh result pushed to the subscriber.
package live

import (
	"log/slog"
	"sync"

	"github.com/rewardjar/rewardjar/internal/store"
)

// Registry holds the active live queries. Bind it to a store.Notifier to
// drive invalidation from committed mutations.
type Registry struct {
	mu     sync.Mutex
	subs   map[int]*entry
	next   int
	cancel func()
	logger *slog.Logger
}

type entry struct {
	tables  map[store.Table]struct{}
	refresh func()
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{subs: make(map[int]*entry), logger: logger}
}

// Bind subscribes the registry to the notifier. Recomputation runs on the
// mutating goroutine, after the mutation has committed, so a caller that
// awaits a store operation observes its dependent queries already refreshed.
func (r *Registry) Bind(n *store.Notifier) {
	r.cancel = n.Subscribe(func(c store.Change) {
		r.Invalidate(c.Table)
	})
}

// Invalidate re-executes every subscription whose table set intersects the
// given tables.
func (r *Registry) Invalidate(tables ...store.Table) {
	r.mu.Lock()
	var affected []func()
	for _, e := range r.subs {
		for _, t := range tables {
			if _, ok := e.tables[t]; ok {
				affected = append(affected, e.refresh)
				break
			}
		}
	}
	r.mu.Unlock()

	// Run outside the lock so a refresh may subscribe or unsubscribe.
	for _, refresh := range affected {
		refresh()
	}
}

// Close detaches the registry from its notifier and tears down every
// subscription.
func (r *Registry) Close() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	r.mu.Lock()
	r.subs = make(map[int]*entry)
	r.mu.Unlock()
}

func (r *Registry) add(tables []store.Table, refresh func()) int {
	set := make(map[store.Table]struct{}, len(tables))
	for _, t := range tables {
		set[t] = struct{}{}
	}

	r.mu.Lock()
	id := r.next
	r.next++
	r.subs[id] = &entry{tables: set, refresh: refresh}
	r.mu.Unlock()
	return id
}

func (r *Registry) remove(id int) {
	r.mu.Lock()
	delete(r.subs, id)
	r.mu.Unlock()
}

// Subscription delivers query results. The channel is buffered and
// latest-wins: an undelivered stale result is replaced by the newer one
// rather than blocking the mutator.
type Subscription[T any] struct {
	reg *Registry
	id  int

	mu     sync.Mutex
	ch     chan T
	closed bool
}

// C returns the result channel. The first result is already buffered when
// Subscribe returns. The channel is closed by Unsubscribe.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Unsubscribe removes the subscription and closes its channel. No result is
// delivered afterwards.
func (s *Subscription[T]) Unsubscribe() {
	s.reg.remove(s.id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *Subscription[T]) push(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.ch: // drop the stale undelivered result
	default:
	}
	s.ch <- v
}

// Subscribe registers query against the tables it reads, executes it once
// immediately, and returns the subscription with the first result buffered.
// A query error is logged and skipped; the last good result stands.
func Subscribe[T any](r *Registry, tables []store.Table, query func() (T, error)) *Subscription[T] {
	s := &Subscription[T]{reg: r, ch: make(chan T, 1)}

	refresh := func() {
		v, err := query()
		if err != nil {
			r.logger.Error("live query failed", "error", err)
			return
		}
		s.push(v)
	}

	s.id = r.add(tables, refresh)
	refresh()
	return s
}
