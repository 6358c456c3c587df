// Package transaction defines the append-only EzCoin transaction record.
package transaction

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xraph/ezcoin/id"
)

// ErrInvalidAmount is returned for an amount that is not positive or is too
// large to record.
var ErrInvalidAmount = errors.New("ezcoin: amount must be a positive integer")

// Type is the closed set of transaction kinds.
type Type string

const (
	TypePurchase Type = "purchase"
	TypeSpend    Type = "spend"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypePurchase || t == TypeSpend
}

// Transaction is an immutable ledger entry. Create it with New.
type Transaction struct {
	ID        id.ID     `json:"id"`
	Type      Type      `json:"type"`
	Amount    int64     `json:"amount"`
	Purpose   string    `json:"purpose"`
	Timestamp time.Time `json:"timestamp"`
}

// InvalidTypeError reports a transaction type outside the closed set.
type InvalidTypeError struct {
	Type Type
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("ezcoin: unknown transaction type %q", string(e.Type))
}

// New validates and builds a transaction stamped at the given instant.
func New(typ Type, amount int64, purpose string, at time.Time) (*Transaction, error) {
	if !typ.Valid() {
		return nil, &InvalidTypeError{Type: typ}
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Transaction{
		ID:        id.NewTransactionID(),
		Type:      typ,
		Amount:    amount,
		Purpose:   purpose,
		Timestamp: at.UTC(),
	}, nil
}

// Validate checks a decoded transaction against the construction rules.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return &InvalidTypeError{Type: t.Type}
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Delta is the signed balance change this transaction applies.
func (t *Transaction) Delta() int64 {
	if t.Type == TypeSpend {
		return -t.Amount
	}
	return t.Amount
}

// PurchasePurpose is the purpose recorded for a purchase made with method.
func PurchasePurpose(method string) string {
	return "Purchased via " + strings.TrimSpace(method)
}

// Replay rebuilds a balance from an initial grant and a transaction log.
func Replay(initial int64, txns []*Transaction) int64 {
	balance := initial
	for _, t := range txns {
		balance += t.Delta()
	}
	return balance
}

// SortNewestFirst orders txns by timestamp descending. Entries sharing a
// timestamp fall back to ID order, which follows creation order.
func SortNewestFirst(txns []*Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return id.Compare(a.ID, b.ID) > 0
	})
}

// NewestFirst returns a sorted copy of txns. The entries are copied too, so
// the result shares nothing with the input.
func NewestFirst(txns []*Transaction) []*Transaction {
	out := make([]*Transaction, len(txns))
	for i, t := range txns {
		out[i] = t.Clone()
	}
	SortNewestFirst(out)
	return out
}

// Clone returns a copy of t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}
