package ezcoin_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xraph/ezcoin"
	"github.com/xraph/ezcoin/ezai"
)

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, ezai.Action, string) (string, error) {
	return "", errors.New("model unavailable")
}

func TestAssistCharges(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, ezcoin.WithAssistant(ezai.NewSimulated(0)))

	res, err := l.Assist(ctx, "0xai", ezai.ActionSummarize, "A long walk on the beach")
	if err != nil {
		t.Fatalf("Assist: %v", err)
	}
	if !strings.HasPrefix(res.Response, "Summary: ") {
		t.Errorf("response = %q", res.Response)
	}
	if res.Transaction == nil || res.Transaction.Amount != 2 || res.Transaction.Purpose != "EzAI summarize" {
		t.Errorf("transaction = %+v", res.Transaction)
	}
	if b := balance(t, l.Wallet("0xai")); b != 48 {
		t.Errorf("balance = %d, want 48", b)
	}
}

func TestAssistRejectsBeforeCharging(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, ezcoin.WithAssistant(ezai.NewSimulated(0)))

	if _, err := l.Assist(ctx, "", ezai.ActionExpand, "   "); !errors.Is(err, ezcoin.ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := l.Assist(ctx, "", "translate", "hi"); !errors.Is(err, ezcoin.ErrUnknownAssistantAction) {
		t.Errorf("expected ErrUnknownAssistantAction, got %v", err)
	}
	if b := balance(t, l.Wallet("")); b != 50 {
		t.Errorf("balance = %d, want 50", b)
	}
}

func TestAssistFailureKeepsCharge(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, ezcoin.WithAssistant(failingGenerator{}))

	res, err := l.Assist(ctx, "", ezai.ActionSuggest, "weekend plans")
	if err == nil {
		t.Fatal("expected generator error")
	}
	if res == nil || res.Transaction == nil {
		t.Fatalf("result should carry the charge: %+v", res)
	}
	if b := balance(t, l.Wallet("")); b != 48 {
		t.Errorf("balance = %d, want 48", b)
	}
}

// cancellingGenerator simulates the caller going away mid-generation.
type cancellingGenerator struct {
	cancel context.CancelFunc
}

func (g cancellingGenerator) Generate(ctx context.Context, _ ezai.Action, content string) (string, error) {
	g.cancel()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "done: " + content, nil
}

func TestAssistCompletesAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l, _ := newLedger(t, ezcoin.WithAssistant(cancellingGenerator{cancel: cancel}))

	res, err := l.Assist(ctx, "0xgone", ezai.ActionExpand, "draft")
	if err != nil {
		t.Fatalf("Assist: %v", err)
	}
	if res.Response != "done: draft" || res.Transaction == nil {
		t.Errorf("result = %+v", res)
	}
	if b := balance(t, l.Wallet("0xgone")); b != 48 {
		t.Errorf("balance = %d, want 48", b)
	}
}
