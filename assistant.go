package ezcoin

import (
	"context"

	"github.com/xraph/ezcoin/ezai"
)

// Assist charges address for an EzAI action and returns the generated text.
// The two coins are spent before generation, which then completes even if ctx
// is cancelled. They are not refunded if the generator fails.
func (l *Ledger) Assist(ctx context.Context, address string, action ezai.Action, content string) (*ezai.Result, error) {
	w := l.Wallet(address)
	res, err := l.assistant.Run(ctx, w, action, content)
	if err != nil {
		if res != nil && res.Transaction != nil {
			l.logger.Warn("assistant failed after charge",
				"address", w.Address(),
				"action", string(action),
				"error", err,
			)
		}
		return res, err
	}

	l.plugins.EmitAssistantUsed(ctx, w.Address(), string(action), res.Transaction)
	return res, nil
}
