// Package plugin provides an extensible plugin system for EzCoin.
// Plugins can hook into wallet and planner events to extend functionality.
package plugin

import (
	"context"

	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/transaction"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the engine stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Wallet hooks
// ──────────────────────────────────────────────────

// OnCoinsPurchased is called after a purchase is committed.
type OnCoinsPurchased interface {
	Plugin
	OnCoinsPurchased(ctx context.Context, address string, txn *transaction.Transaction, receipt *payment.Receipt, balance int64) error
}

// OnCoinsSpent is called after a spend is committed.
type OnCoinsSpent interface {
	Plugin
	OnCoinsSpent(ctx context.Context, address string, txn *transaction.Transaction, balance int64) error
}

// OnSpendRejected is called when a spend exceeds the balance.
type OnSpendRejected interface {
	Plugin
	OnSpendRejected(ctx context.Context, address, purpose string, required, available int64) error
}

// OnPaymentFailed is called when the processor refuses or fails a purchase.
type OnPaymentFailed interface {
	Plugin
	OnPaymentFailed(ctx context.Context, address, method string, coins int64, err error) error
}

// OnStorageFailed is called when a commit could not be persisted.
type OnStorageFailed interface {
	Plugin
	OnStorageFailed(ctx context.Context, address, op string, err error) error
}

// ──────────────────────────────────────────────────
// Planner and assistant hooks
// ──────────────────────────────────────────────────

// OnPlannerEventsCreated is called after a template and its instances are
// persisted.
type OnPlannerEventsCreated interface {
	Plugin
	OnPlannerEventsCreated(ctx context.Context, owner string, instances []planner.Event, cost int64) error
}

// OnAssistantUsed is called after a paid EzAI run.
type OnAssistantUsed interface {
	Plugin
	OnAssistantUsed(ctx context.Context, address, action string, txn *transaction.Transaction) error
}

// ──────────────────────────────────────────────────
// Payment processors
// ──────────────────────────────────────────────────

// PaymentProcessorPlugin supplies the processor that settles purchases.
// The first one registered is used unless the engine was given one
// explicitly.
type PaymentProcessorPlugin interface {
	Plugin
	Processor() payment.Processor
}
