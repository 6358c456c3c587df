// Package payment defines the processor that settles real-money coin
// purchases before the ledger credits them.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/ezcoin/id"
	"github.com/xraph/ezcoin/types"
)

// ErrDeclined marks a payment the processor refused. Nothing is credited.
var ErrDeclined = errors.New("ezcoin: payment declined")

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusDeclined  Status = "declined"
)

// Request describes one coin purchase to be paid for. Amount is zero when
// the caller bought coins by count and left pricing to the processor.
type Request struct {
	ID          id.ID
	Address     string
	Coins       int64
	Method      string
	Amount      types.Money
	Description string
}

type Receipt struct {
	types.Entity
	ID        id.ID `json:"id"`
	Address   string       `json:"address"`
	Coins     int64        `json:"coins"`
	Method    string       `json:"method"`
	Amount    types.Money  `json:"amount"`
	Status    Status       `json:"status"`
	Reference string       `json:"reference"`
}

// Processor settles a payment. A refused payment returns an error wrapping
// ErrDeclined; any other error is a processor fault.
type Processor interface {
	Charge(ctx context.Context, req Request) (*Receipt, error)
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(ctx context.Context, req Request) (*Receipt, error)

// Charge implements Processor.
func (f ProcessorFunc) Charge(ctx context.Context, req Request) (*Receipt, error) {
	return f(ctx, req)
}

// Decline builds the error a processor returns for a refused payment.
func Decline(reason string) error {
	return fmt.Errorf("%w: %s", ErrDeclined, reason)
}
