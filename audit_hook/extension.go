// Package audithook bridges EzCoin wallet and planner events to an audit
// trail backend.
//
// It defines a local Recorder interface so the package does not depend on
// any particular audit store. Callers inject a RecorderFunc adapter at
// wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/plugin"
	"github.com/xraph/ezcoin/transaction"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                 = (*Extension)(nil)
	_ plugin.OnCoinsPurchased       = (*Extension)(nil)
	_ plugin.OnCoinsSpent           = (*Extension)(nil)
	_ plugin.OnSpendRejected        = (*Extension)(nil)
	_ plugin.OnPaymentFailed        = (*Extension)(nil)
	_ plugin.OnStorageFailed        = (*Extension)(nil)
	_ plugin.OnPlannerEventsCreated = (*Extension)(nil)
	_ plugin.OnAssistantUsed        = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is one entry in the audit trail.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges engine events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Wallet hooks
// ──────────────────────────────────────────────────

// OnCoinsPurchased implements plugin.OnCoinsPurchased.
func (e *Extension) OnCoinsPurchased(ctx context.Context, address string, txn *transaction.Transaction, receipt *payment.Receipt, balance int64) error {
	kv := []any{
		"address", address,
		"amount", txn.Amount,
		"purpose", txn.Purpose,
		"balance", balance,
	}
	if receipt != nil {
		kv = append(kv, "method", receipt.Method, "reference", receipt.Reference)
	}
	return e.record(ctx, ActionCoinsPurchased, SeverityInfo, OutcomeSuccess,
		ResourceWallet, txn.ID.String(), CategoryWallet, nil, kv...)
}

// OnCoinsSpent implements plugin.OnCoinsSpent.
func (e *Extension) OnCoinsSpent(ctx context.Context, address string, txn *transaction.Transaction, balance int64) error {
	return e.record(ctx, ActionCoinsSpent, SeverityInfo, OutcomeSuccess,
		ResourceWallet, txn.ID.String(), CategoryWallet, nil,
		"address", address,
		"amount", txn.Amount,
		"purpose", txn.Purpose,
		"balance", balance,
	)
}

// OnSpendRejected implements plugin.OnSpendRejected.
func (e *Extension) OnSpendRejected(ctx context.Context, address, purpose string, required, available int64) error {
	return e.record(ctx, ActionSpendRejected, SeverityWarning, OutcomeFailure,
		ResourceWallet, address, CategoryWallet, nil,
		"address", address,
		"purpose", purpose,
		"required", required,
		"available", available,
	)
}

// ──────────────────────────────────────────────────
// Failure hooks
// ──────────────────────────────────────────────────

// OnPaymentFailed implements plugin.OnPaymentFailed.
func (e *Extension) OnPaymentFailed(ctx context.Context, address, method string, coins int64, err error) error {
	return e.record(ctx, ActionPaymentFailed, SeverityWarning, OutcomeFailure,
		ResourcePayment, address, CategoryPayment, err,
		"address", address,
		"method", method,
		"coins", coins,
	)
}

// OnStorageFailed implements plugin.OnStorageFailed.
func (e *Extension) OnStorageFailed(ctx context.Context, address, op string, err error) error {
	return e.record(ctx, ActionStorageFailed, SeverityCritical, OutcomeFailure,
		ResourceStore, address, CategorySystem, err,
		"address", address,
		"op", op,
	)
}

// ──────────────────────────────────────────────────
// Planner and assistant hooks
// ──────────────────────────────────────────────────

// OnPlannerEventsCreated implements plugin.OnPlannerEventsCreated.
func (e *Extension) OnPlannerEventsCreated(ctx context.Context, owner string, instances []planner.Event, cost int64) error {
	var templateID string
	if len(instances) > 0 {
		templateID = instances[0].ID
	}
	return e.record(ctx, ActionPlannerEventsCreated, SeverityInfo, OutcomeSuccess,
		ResourcePlanner, templateID, CategoryPlanner, nil,
		"owner", owner,
		"instances", len(instances),
		"cost", cost,
	)
}

// OnAssistantUsed implements plugin.OnAssistantUsed.
func (e *Extension) OnAssistantUsed(ctx context.Context, address, action string, txn *transaction.Transaction) error {
	var txnID string
	if txn != nil {
		txnID = txn.ID.String()
	}
	return e.record(ctx, ActionAssistantUsed, SeverityInfo, OutcomeSuccess,
		ResourceAssistant, txnID, CategoryAI, nil,
		"address", address,
		"action", action,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
