// Package ezcoin is the EzCoin engine: a per-identity coin ledger that gates
// posting, liking, EzAI and planner features, plus the planner that
// materializes recurring events.
//
// EzCoin is a library first. Import it into a Go service, pick a store and
// hand out wallets:
//
//	import (
//	    "github.com/xraph/ezcoin"
//	    "github.com/xraph/ezcoin/store/memory"
//	)
//
//	l := ezcoin.New(memory.New())
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	w := l.Wallet("0x1234")
//	if _, err := w.Spend(ctx, 3, "Create post"); ezcoin.IsInsufficientBalance(err) {
//	    // show "need 3, have N"
//	}
//
// # Wallets
//
// Every identity starts with a grant (50 coins by default). Purchases credit
// coins once the payment processor settles; spends debit them or fail with
// an *InsufficientBalanceError that carries the required and available
// amounts. Balance and transaction log are persisted together as one
// versioned record, and all mutations of one identity are serialized, so
// two concurrent spends can never both succeed against a balance that only
// covers one.
//
// When the store rejects a commit the engine keeps the previous snapshot
// and returns a *StorageError; the whole call may be retried.
//
// # Planner
//
// CreatePlannerEvent charges one coin for a permanent event plus one per
// recurrence, then expands the template:
//
//	res, err := l.CreatePlannerEvent(ctx, "0x1234", planner.Event{
//	    Title:           "Standup",
//	    Date:            time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
//	    IsRecurring:     true,
//	    RecurrenceType:  planner.RecurrenceWeekly,
//	    RecurrenceCount: 2,
//	})
//	// res.Instances: 1 Jan, 8 Jan, 15 Jan
//
// Each occurrence advances one unit from the previous one. Monthly
// recurrences clamp to the last day of shorter months.
//
// # TypeID
//
// Transactions, events and payments use TypeIDs:
//
//	txn_01h2xcejqtf2nbrexx3vqjhp41  // Transaction ID
//	evt_01h2xcejqtf2nbrexx3vqjhp41  // Planner event template
//	pay_01h455vb4pex5vsknk084sn02q  // Payment
//
// TypeIDs are K-sortable, which gives the transaction log a stable
// tiebreak when two entries share a timestamp.
package ezcoin
