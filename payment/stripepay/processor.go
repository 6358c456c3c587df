// Package stripepay settles coin purchases with Stripe PaymentIntents.
package stripepay

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"

	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/pricing"
	"github.com/xraph/ezcoin/types"
)

// IntentCreator is the slice of the Stripe PaymentIntent client the
// processor needs. *paymentintent.Client satisfies it.
type IntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// Processor confirms a PaymentIntent per purchase against a saved payment
// method.
type Processor struct {
	intents       IntentCreator
	paymentMethod string
}

var _ payment.Processor = (*Processor)(nil)

// Option configures a Processor.
type Option func(*Processor)

// WithPaymentMethod sets the Stripe payment method charged. Defaults to the
// test card "pm_card_visa".
func WithPaymentMethod(pm string) Option {
	return func(p *Processor) { p.paymentMethod = pm }
}

// WithIntentCreator replaces the Stripe client, mostly for tests.
func WithIntentCreator(c IntentCreator) Option {
	return func(p *Processor) { p.intents = c }
}

// New creates a Processor authenticated with secretKey.
func New(secretKey string, opts ...Option) *Processor {
	p := &Processor{
		intents:       &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		paymentMethod: "pm_card_visa",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Charge creates and confirms a PaymentIntent. Card errors and intents that
// do not reach "succeeded" are declines; anything else is a processor fault.
func (p *Processor) Charge(ctx context.Context, req payment.Request) (*payment.Receipt, error) {
	amount, err := priceOf(req)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount.Amount),
		Currency:           stripe.String(amount.Currency),
		PaymentMethod:      stripe.String(p.paymentMethod),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx
	params.AddMetadata("address", req.Address)
	params.AddMetadata("coins", strconv.FormatInt(req.Coins, 10))
	if !req.ID.IsNil() {
		params.SetIdempotencyKey(req.ID.String())
	}

	pi, err := p.intents.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.Type == stripe.ErrorTypeCard {
			return nil, payment.Decline(serr.Msg)
		}
		return nil, fmt.Errorf("ezcoin/stripe: create payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, payment.Decline("payment intent " + string(pi.Status))
	}

	return &payment.Receipt{
		Entity:    types.NewEntity(),
		ID:        req.ID,
		Address:   req.Address,
		Coins:     req.Coins,
		Method:    req.Method,
		Amount:    amount,
		Status:    payment.StatusSucceeded,
		Reference: pi.ID,
	}, nil
}

// priceOf uses the request amount, or the catalog package with the same
// coin count when the caller bought coins by count.
func priceOf(req payment.Request) (types.Money, error) {
	if req.Amount.IsPositive() {
		return req.Amount, nil
	}
	for _, pkg := range pricing.Packages() {
		if pkg.Coins == req.Coins {
			return pkg.Price, nil
		}
	}
	return types.Money{}, payment.Decline(fmt.Sprintf("no price for %d coins", req.Coins))
}
