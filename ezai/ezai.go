// Package ezai is the coin-gated writing assistant. Text generation sits
// behind Generator; Assistant charges the wallet before generating.
package ezai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/ezcoin/pricing"
	"github.com/xraph/ezcoin/transaction"
)

var (
	ErrUnknownAction = errors.New("ezcoin: unknown ezai action")
	ErrEmptyContent  = errors.New("ezcoin: no content to process")
)

type Action string

const (
	ActionSummarize Action = "summarize"
	ActionExpand    Action = "expand"
	ActionSuggest   Action = "suggest"
)

// ParseAction accepts the bare action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := a.priced(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// PricedAction maps an assistant action onto the price list.
func (a Action) PricedAction() (pricing.Action, error) {
	p, ok := a.priced()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, string(a))
	}
	return p, nil
}

func (a Action) priced() (pricing.Action, bool) {
	switch a {
	case ActionSummarize:
		return pricing.ActionAISummarize, true
	case ActionExpand:
		return pricing.ActionAIExpand, true
	case ActionSuggest:
		return pricing.ActionAISuggest, true
	}
	return "", false
}

// Generator produces assistant text for content.
type Generator interface {
	Generate(ctx context.Context, action Action, content string) (string, error)
}

// Charger spends the fixed cost of a priced action. *ezcoin.Wallet
// satisfies it.
type Charger interface {
	Charge(ctx context.Context, action pricing.Action) (*transaction.Transaction, error)
}

// Result is one assistant run and the spend that paid for it.
type Result struct {
	Action      Action                   `json:"action"`
	Response    string                   `json:"response"`
	Transaction *transaction.Transaction `json:"transaction"`
}

// Assistant gates a Generator behind a wallet charge.
type Assistant struct {
	gen Generator
}

// NewAssistant wraps gen. A nil gen uses the simulated generator with its
// default delay.
func NewAssistant(gen Generator) *Assistant {
	if gen == nil {
		gen = NewSimulated(DefaultSimulatedDelay)
	}
	return &Assistant{gen: gen}
}

// Run charges wallet for action and then generates. Cancelling ctx after the
// charge does not stop generation. The charge is not refunded if generation
// fails afterwards.
func (a *Assistant) Run(ctx context.Context, wallet Charger, action Action, content string) (*Result, error) {
	priced, err := action.PricedAction()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	txn, err := wallet.Charge(ctx, priced)
	if err != nil {
		return nil, err
	}

	// The coins are spent, so generation runs to completion even if the
	// caller goes away.
	resp, err := a.gen.Generate(context.WithoutCancel(ctx), action, content)
	if err != nil {
		return &Result{Action: action, Transaction: txn}, fmt.Errorf("ezai: generate %s: %w", action, err)
	}
	return &Result{Action: action, Response: resp, Transaction: txn}, nil
}

// DefaultSimulatedDelay matches the demo assistant's pause.
const DefaultSimulatedDelay = 2 * time.Second

// Simulated answers with canned text after Delay.
type Simulated struct {
	Delay time.Duration
}

var _ Generator = (*Simulated)(nil)

func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{Delay: delay}
}

func (s *Simulated) Generate(ctx context.Context, action Action, content string) (string, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	switch action {
	case ActionSummarize:
		return "Summary: " + prefix(content, 50) + "...", nil
	case ActionExpand:
		return "Expanded version: " + content + " This could be further developed with additional context and details.", nil
	case ActionSuggest:
		return "Suggested tags: #memory #blockchain #social", nil
	}
	return "AI processing complete!", nil
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
