package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/planner"
	ezstore "github.com/xraph/ezcoin/store"
)

// compile-time interface check
var _ ezstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("ezcoin/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("ezcoin/sqlite: migration failed: %w", err)
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
	err := s.sdb.NewSelect(m).
		Where("address = ?", address).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, account.ErrNotFound
		}
		return nil, fmt.Errorf("ezcoin/sqlite: get account: %w", err)
	}
	a, err := fromAccountModel(m)
	if err != nil {
		return nil, fmt.Errorf("ezcoin/sqlite: decode account: %w", err)
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
		return fmt.Errorf("ezcoin/sqlite: encode account: %w", err)
	}

	if a.Version == 1 {
		res, err := s.sdb.NewInsert(m).
			OnConflict("(address) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("ezcoin/sqlite: create account: %w", err)
		}
		return conflictIfUnchanged(res)
	}

	res, err := s.sdb.NewUpdate((*accountModel)(nil)).
		Set("balance = ?", m.Balance).
		Set("version = ?", m.Version).
		Set("transactions = ?", m.Transactions).
		Set("updated_at = ?", m.UpdatedAt).
		Where("address = ?", m.Address).
		Where("version = ?", m.Version-1).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ezcoin/sqlite: update account: %w", err)
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
	if _, err := s.sdb.NewInsert(&models).Exec(ctx); err != nil {
		return fmt.Errorf("ezcoin/sqlite: add events: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context, owner string) ([]planner.Event, error) {
	var models []eventModel
	err := s.sdb.NewSelect(&models).
		Where("owner = ?", owner).
		OrderExpr("date ASC, id ASC").
		Scan(ctx)
	if err != nil && !isNoRows(err) {
		return nil, fmt.Errorf("ezcoin/sqlite: list events: %w", err)
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
		return fmt.Errorf("ezcoin/sqlite: rows affected: %w", err)
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
