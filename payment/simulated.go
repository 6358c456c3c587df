package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xraph/ezcoin/types"
)

// DefaultSimulatedDelay matches the demo checkout's pause.
const DefaultSimulatedDelay = 2 * time.Second

// Simulated waits Delay and then always succeeds. The wait honors ctx, so a
// cancelled purchase fails before anything is credited.
type Simulated struct {
	Delay time.Duration
}

var _ Processor = (*Simulated)(nil)

// NewSimulated returns a Simulated processor with the given delay.
func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{Delay: delay}
}

func (s *Simulated) Charge(ctx context.Context, req Request) (*Receipt, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &Receipt{
		Entity:    types.NewEntity(),
		ID:        req.ID,
		Address:   req.Address,
		Coins:     req.Coins,
		Method:    req.Method,
		Amount:    req.Amount,
		Status:    StatusSucceeded,
		Reference: "sim_" + uuid.NewString(),
	}, nil
}

// Declining refuses every payment with Reason. Use it to exercise the
// failure path of a real integration.
type Declining struct {
	Reason string
}

var _ Processor = Declining{}

func (d Declining) Charge(context.Context, Request) (*Receipt, error) {
	reason := d.Reason
	if reason == "" {
		reason = "card declined"
	}
	return nil, Decline(reason)
}
