package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/planner"
	ezstore "github.com/xraph/ezcoin/store"
)

// compile-time interface check
var _ ezstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db  *grove.DB
	pg  *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("ezcoin/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("ezcoin/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Account Store ====================

func (s *Store) GetAccount(ctx context.Context, address string) (*account.Account, error) {
	m := new(accountModel)
	err := s.pg.NewSelect(m).
		Where("address = $1", address).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, account.ErrNotFound
		}
		return nil, fmt.Errorf("ezcoin/postgres: get account: %w", err)
	}
	a, err := fromAccountModel(m)
	if err != nil {
		return nil, fmt.Errorf("ezcoin/postgres: decode account: %w", err)
	}
	return a, nil
}

// SaveAccount inserts the first version and compare-and-swaps every later
// one on the stored version.
func (s *Store) SaveAccount(ctx context.Context, a *account.Account) error {
	if a.Version < 1 {
		return account.ErrVersionConflict
	}
	m, err := toAccountModel(a)
	if err != nil {
		return fmt.Errorf("ezcoin/postgres: encode account: %w", err)
	}

	if a.Version == 1 {
		res, err := s.pg.NewInsert(m).
			OnConflict("(address) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("ezcoin/postgres: create account: %w", err)
		}
		return conflictIfUnchanged(res)
	}

	res, err := s.pg.NewUpdate((*accountModel)(nil)).
		Set("balance = $1", m.Balance).
		Set("version = $2", m.Version).
		Set("transactions = $3", m.Transactions).
		Set("updated_at = $4", m.UpdatedAt).
		Where("address = $5", m.Address).
		Where("version = $6", m.Version-1).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ezcoin/postgres: update account: %w", err)
	}
	return conflictIfUnchanged(res)
}

// ==================== Planner Store ====================

// AddEvents writes every event in one multi-row insert.
func (s *Store) AddEvents(ctx context.Context, owner string, events []planner.Event) error {
	if len(events) == 0 {
		return nil
	}
	models := make([]eventModel, len(events))
	for i, e := range events {
		models[i] = toEventModel(owner, e)
	}
	if _, err := s.pg.NewInsert(&models).Exec(ctx); err != nil {
		return fmt.Errorf("ezcoin/postgres: add events: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context, owner string) ([]planner.Event, error) {
	var models []eventModel
	err := s.pg.NewSelect(&models).
		Where("owner = $1", owner).
		OrderExpr("date ASC, id ASC").
		Scan(ctx)
	if err != nil && !isNoRows(err) {
		return nil, fmt.Errorf("ezcoin/postgres: list events: %w", err)
	}
	events := make([]planner.Event, len(models))
	for i := range models {
		events[i] = fromEventModel(&models[i])
	}
	planner.SortByDate(events)
	return events, nil
}

// ==================== Helpers ====================

// conflictIfUnchanged maps a write that matched no row to a version conflict.
func conflictIfUnchanged(res interface{ RowsAffected() (int64, error) }) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ezcoin/postgres: rows affected: %w", err)
	}
	if rows == 0 {
		return account.ErrVersionConflict
	}
	return nil
}

// isNoRows checks if an error wraps sql.ErrNoRows.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
