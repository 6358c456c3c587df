// Package observability provides a metrics extension for EzCoin that records
// wallet, planner and assistant event counts through a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/plugin"
	"github.com/xraph/ezcoin/transaction"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                 = (*MetricsExtension)(nil)
	_ plugin.OnInit                 = (*MetricsExtension)(nil)
	_ plugin.OnCoinsPurchased       = (*MetricsExtension)(nil)
	_ plugin.OnCoinsSpent           = (*MetricsExtension)(nil)
	_ plugin.OnSpendRejected        = (*MetricsExtension)(nil)
	_ plugin.OnPaymentFailed        = (*MetricsExtension)(nil)
	_ plugin.OnStorageFailed        = (*MetricsExtension)(nil)
	_ plugin.OnPlannerEventsCreated = (*MetricsExtension)(nil)
	_ plugin.OnAssistantUsed        = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide coin and planner metrics.
// Register it as an engine plugin.
type MetricsExtension struct {
	factory MetricFactory

	// Wallet metrics
	Purchases       Counter
	CoinsPurchased  Counter
	PurchaseSize    Histogram
	Spends          Counter
	CoinsSpent      Counter
	SpendsRejected  Counter
	BalanceAfterOp  Histogram
	PaymentFailures Counter

	// Planner metrics
	PlannerTemplates Counter
	PlannerInstances Counter
	PlannerCoins     Counter

	// Assistant metrics
	AssistantRuns Counter

	// Error metrics
	StoreErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		Purchases:       factory.Counter("ezcoin.wallet.purchases"),
		CoinsPurchased:  factory.Counter("ezcoin.wallet.coins.purchased"),
		PurchaseSize:    factory.Histogram("ezcoin.wallet.purchase.size"),
		Spends:          factory.Counter("ezcoin.wallet.spends"),
		CoinsSpent:      factory.Counter("ezcoin.wallet.coins.spent"),
		SpendsRejected:  factory.Counter("ezcoin.wallet.spends.rejected"),
		BalanceAfterOp:  factory.Histogram("ezcoin.wallet.balance"),
		PaymentFailures: factory.Counter("ezcoin.payment.failures"),

		PlannerTemplates: factory.Counter("ezcoin.planner.templates"),
		PlannerInstances: factory.Counter("ezcoin.planner.instances"),
		PlannerCoins:     factory.Counter("ezcoin.planner.coins"),

		AssistantRuns: factory.Counter("ezcoin.ezai.runs"),

		StoreErrors: factory.Counter("ezcoin.store.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(context.Context, any) error { return nil }

// ──────────────────────────────────────────────────
// Wallet hooks
// ──────────────────────────────────────────────────

// OnCoinsPurchased implements plugin.OnCoinsPurchased.
func (m *MetricsExtension) OnCoinsPurchased(_ context.Context, _ string, txn *transaction.Transaction, _ *payment.Receipt, balance int64) error {
	m.Purchases.Inc()
	m.CoinsPurchased.Add(float64(txn.Amount))
	m.PurchaseSize.Observe(float64(txn.Amount))
	m.BalanceAfterOp.Observe(float64(balance))
	return nil
}

// OnCoinsSpent implements plugin.OnCoinsSpent.
func (m *MetricsExtension) OnCoinsSpent(_ context.Context, _ string, txn *transaction.Transaction, balance int64) error {
	m.Spends.Inc()
	m.CoinsSpent.Add(float64(txn.Amount))
	m.BalanceAfterOp.Observe(float64(balance))
	return nil
}

// OnSpendRejected implements plugin.OnSpendRejected.
func (m *MetricsExtension) OnSpendRejected(context.Context, string, string, int64, int64) error {
	m.SpendsRejected.Inc()
	return nil
}

// OnPaymentFailed implements plugin.OnPaymentFailed.
func (m *MetricsExtension) OnPaymentFailed(context.Context, string, string, int64, error) error {
	m.PaymentFailures.Inc()
	return nil
}

// OnStorageFailed implements plugin.OnStorageFailed.
func (m *MetricsExtension) OnStorageFailed(context.Context, string, string, error) error {
	m.StoreErrors.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Planner and assistant hooks
// ──────────────────────────────────────────────────

// OnPlannerEventsCreated implements plugin.OnPlannerEventsCreated.
func (m *MetricsExtension) OnPlannerEventsCreated(_ context.Context, _ string, instances []planner.Event, cost int64) error {
	m.PlannerTemplates.Inc()
	m.PlannerInstances.Add(float64(len(instances)))
	if cost > 0 {
		m.PlannerCoins.Add(float64(cost))
	}
	return nil
}

// OnAssistantUsed implements plugin.OnAssistantUsed.
func (m *MetricsExtension) OnAssistantUsed(context.Context, string, string, *transaction.Transaction) error {
	m.AssistantRuns.Inc()
	return nil
}
