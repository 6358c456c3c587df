// Package kvstore lays EzCoin state out over a flat kv.Store using the
// local-storage key scheme:
//
//	ezcoin_balance[:addr]       decimal balance
//	ezcoin_transactions[:addr]  JSON array of transactions
//	planner_events[:addr]       JSON array of materialized events
//
// The default identity uses the bare keys. Balance and log are written in
// one SetMulti so they can never disagree.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/kv"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/store"
	"github.com/xraph/ezcoin/transaction"
	"github.com/xraph/ezcoin/types"
)

const (
	balanceKey      = "ezcoin_balance"
	transactionsKey = "ezcoin_transactions"
	eventsKey       = "planner_events"
)

var _ store.Store = (*Store)(nil)

// Store serializes writers in-process. When the backend is a kv.Swapper the
// version check is also enforced against writers in other processes;
// otherwise the store assumes it is the only writer.
type Store struct {
	kv kv.Store
	mu sync.Mutex
}

func New(backend kv.Store) *Store {
	return &Store{kv: backend}
}

// Key scopes base to address.
func Key(base, address string) string {
	if address == account.DefaultAddress {
		return base
	}
	return base + ":" + address
}

// ──────────────────────────────────────────────────
// Account store
// ──────────────────────────────────────────────────

func (s *Store) GetAccount(ctx context.Context, address string) (*account.Account, error) {
	a, _, err := s.load(ctx, address)
	return a, err
}

// load also returns the stored transaction log as written, which guards the
// next save.
func (s *Store) load(ctx context.Context, address string) (*account.Account, string, error) {
	rawBalance, err := s.kv.Get(ctx, Key(balanceKey, address))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, "", account.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("ezcoin/kvstore: get balance: %w", err)
	}
	balance, err := strconv.ParseInt(rawBalance, 10, 64)
	if err != nil {
		return nil, "", fmt.Errorf("ezcoin/kvstore: parse balance %q: %w", rawBalance, err)
	}

	txns := []*transaction.Transaction{}
	rawTxns, err := s.kv.Get(ctx, Key(transactionsKey, address))
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		return nil, "", fmt.Errorf("ezcoin/kvstore: get transactions: %w", err)
	default:
		if err := json.Unmarshal([]byte(rawTxns), &txns); err != nil {
			return nil, "", fmt.Errorf("ezcoin/kvstore: decode transactions: %w", err)
		}
	}

	a := &account.Account{
		Address:      address,
		Balance:      balance,
		Version:      int64(len(txns)),
		Transactions: txns,
	}
	// Timestamps are not stored separately; the log brackets them.
	if len(txns) > 0 {
		a.Entity = types.EntityAt(txns[0].Timestamp)
		a.Touch(txns[len(txns)-1].Timestamp)
	}
	return a, rawTxns, nil
}

func (s *Store) SaveAccount(ctx context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored int64
	cur, guard, err := s.load(ctx, a.Address)
	switch {
	case errors.Is(err, account.ErrNotFound):
	case err != nil:
		return err
	default:
		stored = cur.Version
	}
	if a.Version < 1 || stored != a.Version-1 {
		return account.ErrVersionConflict
	}

	txns, err := json.Marshal(a.Transactions)
	if err != nil {
		return fmt.Errorf("ezcoin/kvstore: encode transactions: %w", err)
	}
	entries := map[string]string{
		Key(balanceKey, a.Address):      strconv.FormatInt(a.Balance, 10),
		Key(transactionsKey, a.Address): string(txns),
	}

	// A shared backend may have other writers; re-check the log atomically
	// with the write.
	if swapper, ok := s.kv.(kv.Swapper); ok {
		err = swapper.CompareAndSetMulti(ctx, Key(transactionsKey, a.Address), guard, entries)
		if errors.Is(err, kv.ErrConflict) {
			return account.ErrVersionConflict
		}
	} else {
		err = s.kv.SetMulti(ctx, entries)
	}
	if err != nil {
		return fmt.Errorf("ezcoin/kvstore: save account: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Planner store
// ──────────────────────────────────────────────────

func (s *Store) AddEvents(ctx context.Context, owner string, events []planner.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.ListEvents(ctx, owner)
	if err != nil {
		return err
	}
	merged := append(existing, events...)
	planner.SortByDate(merged)

	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("ezcoin/kvstore: encode events: %w", err)
	}
	if err := s.kv.Set(ctx, Key(eventsKey, owner), string(raw)); err != nil {
		return fmt.Errorf("ezcoin/kvstore: save events: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context, owner string) ([]planner.Event, error) {
	raw, err := s.kv.Get(ctx, Key(eventsKey, owner))
	if errors.Is(err, kv.ErrNotFound) {
		return []planner.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ezcoin/kvstore: get events: %w", err)
	}
	events := []planner.Event{}
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, fmt.Errorf("ezcoin/kvstore: decode events: %w", err)
	}
	planner.SortByDate(events)
	return events, nil
}

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

func (s *Store) Migrate(context.Context) error { return nil }

func (s *Store) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

func (s *Store) Close() error { return s.kv.Close() }
