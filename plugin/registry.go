package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/transaction"
)

// DefaultHookTimeout bounds a single plugin hook call.
const DefaultHookTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// Hook implementations are discovered once at registration.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	onInit                 []OnInit
	onShutdown             []OnShutdown
	onCoinsPurchased       []OnCoinsPurchased
	onCoinsSpent           []OnCoinsSpent
	onSpendRejected        []OnSpendRejected
	onPaymentFailed        []OnPaymentFailed
	onStorageFailed        []OnStorageFailed
	onPlannerEventsCreated []OnPlannerEventsCreated
	onAssistantUsed        []OnAssistantUsed
	paymentProcessors      []PaymentProcessorPlugin
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultHookTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	r.timeout = d
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnCoinsPurchased); ok {
		r.onCoinsPurchased = append(r.onCoinsPurchased, v)
	}
	if v, ok := p.(OnCoinsSpent); ok {
		r.onCoinsSpent = append(r.onCoinsSpent, v)
	}
	if v, ok := p.(OnSpendRejected); ok {
		r.onSpendRejected = append(r.onSpendRejected, v)
	}
	if v, ok := p.(OnPaymentFailed); ok {
		r.onPaymentFailed = append(r.onPaymentFailed, v)
	}
	if v, ok := p.(OnStorageFailed); ok {
		r.onStorageFailed = append(r.onStorageFailed, v)
	}
	if v, ok := p.(OnPlannerEventsCreated); ok {
		r.onPlannerEventsCreated = append(r.onPlannerEventsCreated, v)
	}
	if v, ok := p.(OnAssistantUsed); ok {
		r.onAssistantUsed = append(r.onAssistantUsed, v)
	}
	if v, ok := p.(PaymentProcessorPlugin); ok {
		r.paymentProcessors = append(r.paymentProcessors, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

var hookTypes = []struct {
	name string
	typ  reflect.Type
}{
	{"OnInit", reflect.TypeFor[OnInit]()},
	{"OnShutdown", reflect.TypeFor[OnShutdown]()},
	{"OnCoinsPurchased", reflect.TypeFor[OnCoinsPurchased]()},
	{"OnCoinsSpent", reflect.TypeFor[OnCoinsSpent]()},
	{"OnSpendRejected", reflect.TypeFor[OnSpendRejected]()},
	{"OnPaymentFailed", reflect.TypeFor[OnPaymentFailed]()},
	{"OnStorageFailed", reflect.TypeFor[OnStorageFailed]()},
	{"OnPlannerEventsCreated", reflect.TypeFor[OnPlannerEventsCreated]()},
	{"OnAssistantUsed", reflect.TypeFor[OnAssistantUsed]()},
	{"PaymentProcessor", reflect.TypeFor[PaymentProcessorPlugin]()},
}

func implementedInterfaces(p Plugin) []string {
	var out []string
	t := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if t.Implements(h.typ) {
			out = append(out, h.name)
		}
	}
	return out
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// PaymentProcessor returns the first plugin-supplied processor, or nil.
func (r *Registry) PaymentProcessor() payment.Processor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.paymentProcessors) == 0 {
		return nil
	}
	return r.paymentProcessors[0].Processor()
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// emit runs call for every plugin in the snapshot, logging failures.
// Hooks never fail the operation that triggered them.
func emit[T Plugin](ctx context.Context, r *Registry, hook string, plugins []T, call func(T) error) {
	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error { return call(p) }); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

func snapshot[T any](r *Registry, s *[]T) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return *s
}

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine any) {
	emit(ctx, r, "OnInit", snapshot(r, &r.onInit), func(p OnInit) error {
		return p.OnInit(ctx, engine)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	emit(ctx, r, "OnShutdown", snapshot(r, &r.onShutdown), func(p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

// EmitCoinsPurchased notifies OnCoinsPurchased plugins.
func (r *Registry) EmitCoinsPurchased(ctx context.Context, address string, txn *transaction.Transaction, receipt *payment.Receipt, balance int64) {
	emit(ctx, r, "OnCoinsPurchased", snapshot(r, &r.onCoinsPurchased), func(p OnCoinsPurchased) error {
		return p.OnCoinsPurchased(ctx, address, txn, receipt, balance)
	})
}

// EmitCoinsSpent notifies OnCoinsSpent plugins.
func (r *Registry) EmitCoinsSpent(ctx context.Context, address string, txn *transaction.Transaction, balance int64) {
	emit(ctx, r, "OnCoinsSpent", snapshot(r, &r.onCoinsSpent), func(p OnCoinsSpent) error {
		return p.OnCoinsSpent(ctx, address, txn, balance)
	})
}

// EmitSpendRejected notifies OnSpendRejected plugins.
func (r *Registry) EmitSpendRejected(ctx context.Context, address, purpose string, required, available int64) {
	emit(ctx, r, "OnSpendRejected", snapshot(r, &r.onSpendRejected), func(p OnSpendRejected) error {
		return p.OnSpendRejected(ctx, address, purpose, required, available)
	})
}

// EmitPaymentFailed notifies OnPaymentFailed plugins.
func (r *Registry) EmitPaymentFailed(ctx context.Context, address, method string, coins int64, cause error) {
	emit(ctx, r, "OnPaymentFailed", snapshot(r, &r.onPaymentFailed), func(p OnPaymentFailed) error {
		return p.OnPaymentFailed(ctx, address, method, coins, cause)
	})
}

// EmitStorageFailed notifies OnStorageFailed plugins.
func (r *Registry) EmitStorageFailed(ctx context.Context, address, op string, cause error) {
	emit(ctx, r, "OnStorageFailed", snapshot(r, &r.onStorageFailed), func(p OnStorageFailed) error {
		return p.OnStorageFailed(ctx, address, op, cause)
	})
}

// EmitPlannerEventsCreated notifies OnPlannerEventsCreated plugins.
func (r *Registry) EmitPlannerEventsCreated(ctx context.Context, owner string, instances []planner.Event, cost int64) {
	emit(ctx, r, "OnPlannerEventsCreated", snapshot(r, &r.onPlannerEventsCreated), func(p OnPlannerEventsCreated) error {
		return p.OnPlannerEventsCreated(ctx, owner, instances, cost)
	})
}

// EmitAssistantUsed notifies OnAssistantUsed plugins.
func (r *Registry) EmitAssistantUsed(ctx context.Context, address, action string, txn *transaction.Transaction) {
	emit(ctx, r, "OnAssistantUsed", snapshot(r, &r.onAssistantUsed), func(p OnAssistantUsed) error {
		return p.OnAssistantUsed(ctx, address, action, txn)
	})
}

// callWithTimeout runs fn, giving up after the registry timeout or when ctx
// is done. A hook that times out keeps running in its goroutine.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
