package store

import (
	"context"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/planner"
)

// Store is the unified storage interface for every persisted EzCoin entity.
// A backend implements the account and planner stores plus lifecycle.
type Store interface {
	account.Store
	planner.Store

	// Migrate prepares the schema. It is safe to call repeatedly.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
