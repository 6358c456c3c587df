// Package memory is an in-process store.Store for tests and demos.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
	events   map[string][]planner.Event

	// failNext makes the next n writes fail, for rollback tests.
	failNext int
	failErr  error
}

func New() *Store {
	return &Store{
		accounts: make(map[string]*account.Account),
		events:   make(map[string][]planner.Event),
	}
}

// FailWrites makes the next n writes return err without storing anything.
func (s *Store) FailWrites(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext, s.failErr = n, err
}

func (s *Store) injectedFailure() error {
	if s.failNext <= 0 {
		return nil
	}
	s.failNext--
	return s.failErr
}

// ──────────────────────────────────────────────────
// Account store
// ──────────────────────────────────────────────────

func (s *Store) GetAccount(_ context.Context, address string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[address]
	if !ok {
		return nil, account.ErrNotFound
	}
	return a.Copy(), nil
}

func (s *Store) SaveAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injectedFailure(); err != nil {
		return err
	}

	var stored int64
	if cur, ok := s.accounts[a.Address]; ok {
		stored = cur.Version
	}
	if a.Version < 1 || stored != a.Version-1 {
		return account.ErrVersionConflict
	}
	s.accounts[a.Address] = a.Copy()
	return nil
}

// ──────────────────────────────────────────────────
// Planner store
// ──────────────────────────────────────────────────

func (s *Store) AddEvents(_ context.Context, owner string, events []planner.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injectedFailure(); err != nil {
		return err
	}

	merged := make([]planner.Event, 0, len(s.events[owner])+len(events))
	merged = append(merged, s.events[owner]...)
	for _, e := range events {
		merged = append(merged, e.Clone())
	}
	planner.SortByDate(merged)
	s.events[owner] = merged
	return nil
}

func (s *Store) ListEvents(_ context.Context, owner string) ([]planner.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]planner.Event, 0, len(s.events[owner]))
	for _, e := range s.events[owner] {
		out = append(out, e.Clone())
	}
	return out, nil
}

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

func (s *Store) Migrate(context.Context) error { return nil }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
