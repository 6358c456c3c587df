// Package account holds the persisted state of one EzCoin identity: its
// balance and transaction log, always written together.
package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/xraph/ezcoin/transaction"
	"github.com/xraph/ezcoin/types"
)

var (
	ErrNotFound        = errors.New("ezcoin: account not found")
	ErrVersionConflict = errors.New("ezcoin: account version conflict")
)

// DefaultAddress is the identity used when no wallet address is available.
const DefaultAddress = ""

// Account is a committed snapshot. Version counts committed transactions, so
// a store can detect a concurrent writer by comparing versions.
type Account struct {
	types.Entity
	Address      string                     `json:"address"`
	Balance      int64                      `json:"balance"`
	Version      int64                      `json:"version"`
	Transactions []*transaction.Transaction `json:"transactions"`
}

// New returns the uncommitted starting state of a first-time identity.
func New(address string, grant int64, at time.Time) *Account {
	return &Account{
		Entity:       types.EntityAt(at),
		Address:      address,
		Balance:      grant,
		Transactions: []*transaction.Transaction{},
	}
}

// IsDefault reports whether this is the unscoped demo identity.
func (a *Account) IsDefault() bool { return a.Address == DefaultAddress }

// Clone returns a copy whose log slice can be appended to independently.
// Transactions are immutable and shared.
func (a *Account) Clone() *Account {
	c := *a
	c.Transactions = make([]*transaction.Transaction, len(a.Transactions), len(a.Transactions)+1)
	copy(c.Transactions, a.Transactions)
	return &c
}

// Copy returns a copy that shares no transactions with a.
func (a *Account) Copy() *Account {
	c := a.Clone()
	for i, t := range c.Transactions {
		c.Transactions[i] = t.Clone()
	}
	return c
}

// Apply returns the successor snapshot with txn appended. The receiver is
// not modified.
func (a *Account) Apply(txn *transaction.Transaction) *Account {
	next := a.Clone()
	next.Balance += txn.Delta()
	next.Version++
	next.Transactions = append(next.Transactions, txn)
	next.Touch(txn.Timestamp)
	return next
}

// Grant is the starting balance implied by the current balance and log.
func (a *Account) Grant() int64 {
	return a.Balance - transaction.Replay(0, a.Transactions)
}

// Verify checks the snapshot's internal consistency.
func (a *Account) Verify() error {
	if a.Balance < 0 {
		return fmt.Errorf("ezcoin: account %q has negative balance %d", a.Address, a.Balance)
	}
	if a.Version != int64(len(a.Transactions)) {
		return fmt.Errorf("ezcoin: account %q version %d does not match %d transactions",
			a.Address, a.Version, len(a.Transactions))
	}
	for _, t := range a.Transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("ezcoin: account %q: %w", a.Address, err)
		}
	}
	return nil
}
