package ezcoin

import (
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/transaction"
	"github.com/xraph/ezcoin/types"
)

// Re-export common types for convenience so users don't have to import the
// domain packages for everyday calls.

// Money is re-exported from types package.
type Money = types.Money

// Entity is re-exported from types package.
type Entity = types.Entity

// Transaction is re-exported from transaction package.
type Transaction = transaction.Transaction

// Event is re-exported from planner package.
type Event = planner.Event

// Re-export Money constructors
var (
	USD  = types.USD
	EUR  = types.EUR
	GBP  = types.GBP
	Zero = types.Zero
)
