package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/planner"
	ezstore "github.com/xraph/ezcoin/store"
)

// Collection name constants.
const (
	colAccounts = "ezcoin_accounts"
	colPlanner  = "ezcoin_planner_events"
)

// compile-time interface check
var _ ezstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all ezcoin collections.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		if _, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ezcoin/mongo: migrate %s indexes: %w", col, err)
		}
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
	var m accountModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": address}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, account.ErrNotFound
		}
		return nil, fmt.Errorf("ezcoin/mongo: get account: %w", err)
	}
	a, err := fromAccountModel(&m)
	if err != nil {
		return nil, fmt.Errorf("ezcoin/mongo: decode account: %w", err)
	}
	return a, nil
}

// SaveAccount inserts the first version and replaces later ones only while
// the stored version is still the predecessor. The whole account is one
// document, so balance and log change together.
func (s *Store) SaveAccount(ctx context.Context, a *account.Account) error {
	if a.Version < 1 {
		return account.ErrVersionConflict
	}
	m := toAccountModel(a)

	if a.Version == 1 {
		if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return account.ErrVersionConflict
			}
			return fmt.Errorf("ezcoin/mongo: create account: %w", err)
		}
		return nil
	}

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.Address, "version": m.Version - 1}).
		SetUpdate(bson.M{"$set": bson.M{
			"balance":      m.Balance,
			"version":      m.Version,
			"transactions": m.Transactions,
			"updated_at":   m.UpdatedAt,
		}}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ezcoin/mongo: update account: %w", err)
	}
	if res.MatchedCount() == 0 {
		return account.ErrVersionConflict
	}
	return nil
}

// ==================== Planner Store ====================

func (s *Store) AddEvents(ctx context.Context, owner string, events []planner.Event) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]eventModel, len(events))
	for i, e := range events {
		docs[i] = toEventModel(e)
	}

	m := &plannerModel{Owner: owner}
	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": owner}).
		SetUpdate(bson.M{"$push": bson.M{"events": bson.M{"$each": docs}}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("ezcoin/mongo: add events: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context, owner string) ([]planner.Event, error) {
	var m plannerModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": owner}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return []planner.Event{}, nil
		}
		return nil, fmt.Errorf("ezcoin/mongo: list events: %w", err)
	}
	events := make([]planner.Event, len(m.Events))
	for i, e := range m.Events {
		events[i] = fromEventModel(e)
	}
	planner.SortByDate(events)
	return events, nil
}

// ==================== Helpers ====================

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all ezcoin collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colAccounts: {
			{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		},
		colPlanner: {
			{Keys: bson.D{{Key: "events.date", Value: 1}}},
			{
				Keys:    bson.D{{Key: "events.original_event_id", Value: 1}},
				Options: options.Index().SetSparse(true),
			},
		},
	}
}
