package account

import "context"

// Store persists account snapshots.
//
// SaveAccount must write balance and log as one atomic record. It is a
// compare-and-swap on Version: the stored version must equal a.Version-1
// (or be absent when a.Version is 1), otherwise ErrVersionConflict.
type Store interface {
	GetAccount(ctx context.Context, address string) (*Account, error)
	SaveAccount(ctx context.Context, a *Account) error
}
