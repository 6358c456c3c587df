package ezcoin_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/ezcoin"
	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/store/memory"
	"github.com/xraph/ezcoin/transaction"
)

type spyPlugin struct {
	mu     sync.Mutex
	events []string
}

func (s *spyPlugin) Name() string { return "spy" }

func (s *spyPlugin) record(e string) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *spyPlugin) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func (s *spyPlugin) OnInit(context.Context, any) error { s.record("init"); return nil }
func (s *spyPlugin) OnShutdown(context.Context) error  { s.record("shutdown"); return nil }

func (s *spyPlugin) OnCoinsPurchased(context.Context, string, *transaction.Transaction, *payment.Receipt, int64) error {
	s.record("purchased")
	return nil
}

func (s *spyPlugin) OnCoinsSpent(context.Context, string, *transaction.Transaction, int64) error {
	s.record("spent")
	return nil
}

func (s *spyPlugin) OnSpendRejected(context.Context, string, string, int64, int64) error {
	s.record("rejected")
	return nil
}

func (s *spyPlugin) OnPaymentFailed(context.Context, string, string, int64, error) error {
	s.record("payment failed")
	return nil
}

func (s *spyPlugin) OnStorageFailed(context.Context, string, string, error) error {
	s.record("storage failed")
	return nil
}

func (s *spyPlugin) OnPlannerEventsCreated(context.Context, string, []planner.Event, int64) error {
	s.record("planner")
	return errors.New("hook errors are logged, not returned")
}

type processorPlugin struct{ proc payment.Processor }

func (processorPlugin) Name() string { return "declining-processor" }

func (p processorPlugin) Processor() payment.Processor { return p.proc }

func TestPluginHooks(t *testing.T) {
	ctx := context.Background()
	spy := &spyPlugin{}
	s := memory.New()
	l := ezcoin.New(s,
		ezcoin.WithPlugin(spy),
		ezcoin.WithPaymentProcessor(payment.NewSimulated(0)),
		ezcoin.WithStartingGrant(5),
	)
	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}

	w := l.Wallet("0xspy")
	if _, err := w.Purchase(ctx, 5, "PayPal"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Spend(ctx, 2, "Create post"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Spend(ctx, 100, "Create post"); err == nil {
		t.Fatal("expected rejection")
	}
	s.FailWrites(1, errors.New("boom"))
	if _, err := w.Spend(ctx, 1, "Like post"); err == nil {
		t.Fatal("expected storage failure")
	}
	if _, err := l.CreatePlannerEvent(ctx, "0xspy", planner.Event{
		Title: "Pinned", Date: time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC), IsPermanent: true,
	}); err != nil {
		t.Fatalf("hook error leaked into the operation: %v", err)
	}
	if err := l.Stop(); err != nil {
		t.Fatal(err)
	}

	want := []string{"init", "purchased", "spent", "rejected", "storage failed", "spent", "planner", "shutdown"}
	got := spy.recorded()
	if len(got) != len(want) {
		t.Fatalf("hooks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hook %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPaymentProcessorPlugin(t *testing.T) {
	ctx := context.Background()
	spy := &spyPlugin{}
	l := ezcoin.New(memory.New(),
		ezcoin.WithPlugin(spy),
		ezcoin.WithPlugin(processorPlugin{proc: payment.Declining{}}),
	)

	_, err := l.Wallet("").Purchase(ctx, 10, "stripe")
	if !errors.Is(err, ezcoin.ErrPaymentDeclined) {
		t.Fatalf("expected the plugin's processor to decline, got %v", err)
	}
	if got := spy.recorded(); len(got) != 1 || got[0] != "payment failed" {
		t.Errorf("hooks = %v", got)
	}
}
