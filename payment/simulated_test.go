package payment_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xraph/ezcoin/id"
	"github.com/xraph/ezcoin/payment"
)

func TestSimulatedSucceeds(t *testing.T) {
	p := payment.NewSimulated(time.Millisecond)
	req := payment.Request{ID: id.NewPaymentID(), Address: "0xabc", Coins: 50, Method: "Credit Card"}

	rec, err := p.Charge(context.Background(), req)
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if rec.Status != payment.StatusSucceeded || rec.Coins != 50 || rec.ID.String() != req.ID.String() {
		t.Errorf("unexpected receipt: %+v", rec)
	}
	if !strings.HasPrefix(rec.Reference, "sim_") {
		t.Errorf("reference = %q", rec.Reference)
	}
}

func TestSimulatedHonorsCancellation(t *testing.T) {
	p := payment.NewSimulated(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := p.Charge(ctx, payment.Request{Coins: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled charge waited for the full delay")
	}
}

func TestDeclining(t *testing.T) {
	_, err := payment.Declining{Reason: "insufficient funds"}.Charge(context.Background(), payment.Request{})
	if !errors.Is(err, payment.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if !strings.Contains(err.Error(), "insufficient funds") {
		t.Errorf("reason missing from %q", err)
	}
}
