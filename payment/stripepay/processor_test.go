package stripepay_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v79"

	"github.com/xraph/ezcoin/id"
	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/payment/stripepay"
	"github.com/xraph/ezcoin/types"
)

type fakeIntents struct {
	got    *stripe.PaymentIntentParams
	status stripe.PaymentIntentStatus
	err    error
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.PaymentIntent{ID: "pi_123", Status: f.status}, nil
}

func TestChargeSucceeded(t *testing.T) {
	fake := &fakeIntents{status: stripe.PaymentIntentStatusSucceeded}
	p := stripepay.New("sk_test", stripepay.WithIntentCreator(fake))

	req := payment.Request{ID: id.NewPaymentID(), Address: "0xabc", Coins: 50, Method: "Credit Card"}
	rec, err := p.Charge(context.Background(), req)
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if rec.Reference != "pi_123" || rec.Status != payment.StatusSucceeded {
		t.Errorf("unexpected receipt: %+v", rec)
	}
	if !rec.Amount.Equal(types.USD(399)) {
		t.Errorf("amount = %v, want $3.99 from the catalog", rec.Amount)
	}
	if *fake.got.Amount != 399 || *fake.got.Currency != "usd" || !*fake.got.Confirm {
		t.Errorf("unexpected params: amount=%d currency=%s", *fake.got.Amount, *fake.got.Currency)
	}
	if fake.got.Metadata["coins"] != "50" {
		t.Errorf("metadata coins = %q", fake.got.Metadata["coins"])
	}
}

func TestChargeExplicitAmount(t *testing.T) {
	fake := &fakeIntents{status: stripe.PaymentIntentStatusSucceeded}
	p := stripepay.New("sk_test", stripepay.WithIntentCreator(fake))

	_, err := p.Charge(context.Background(), payment.Request{Coins: 7, Amount: types.EUR(123)})
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if *fake.got.Amount != 123 || *fake.got.Currency != "eur" {
		t.Errorf("explicit amount ignored: %d %s", *fake.got.Amount, *fake.got.Currency)
	}
}

func TestChargeDeclines(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeIntents
		req  payment.Request
	}{
		{"card error", &fakeIntents{err: &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card was declined."}}, payment.Request{Coins: 10}},
		{"requires action", &fakeIntents{status: stripe.PaymentIntentStatusRequiresAction}, payment.Request{Coins: 10}},
		{"unpriced coins", &fakeIntents{status: stripe.PaymentIntentStatusSucceeded}, payment.Request{Coins: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := stripepay.New("sk_test", stripepay.WithIntentCreator(tt.fake))
			_, err := p.Charge(context.Background(), tt.req)
			if !errors.Is(err, payment.ErrDeclined) {
				t.Fatalf("expected ErrDeclined, got %v", err)
			}
		})
	}
}

func TestChargeProcessorFault(t *testing.T) {
	fake := &fakeIntents{err: &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "boom"}}
	p := stripepay.New("sk_test", stripepay.WithIntentCreator(fake))

	_, err := p.Charge(context.Background(), payment.Request{Coins: 10})
	if err == nil || errors.Is(err, payment.ErrDeclined) {
		t.Fatalf("expected a non-decline error, got %v", err)
	}
}
