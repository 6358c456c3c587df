package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/store/memory"
	"github.com/xraph/ezcoin/store/storetest"
	"github.com/xraph/ezcoin/transaction"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, memory.New())
}

func TestFailWrites(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	boom := errors.New("disk full")
	s.FailWrites(1, boom)

	txn, err := transaction.New(transaction.TypeSpend, 1, "Like post", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	next := account.New("0xabc", 50, time.Now()).Apply(txn)

	if err := s.SaveAccount(ctx, next); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if _, err := s.GetAccount(ctx, "0xabc"); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("failed write was stored: %v", err)
	}
	if err := s.SaveAccount(ctx, next); err != nil {
		t.Fatalf("second write should succeed: %v", err)
	}
}

func TestReturnedAccountIsACopy(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	txn, _ := transaction.New(transaction.TypePurchase, 10, transaction.PurchasePurpose("PayPal"), time.Now())
	if err := s.SaveAccount(ctx, account.New("", 50, time.Now()).Apply(txn)); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetAccount(ctx, "")
	got.Balance = 0
	got.Transactions = nil

	again, _ := s.GetAccount(ctx, "")
	if again.Balance != 60 || len(again.Transactions) != 1 {
		t.Errorf("stored account was mutated through a returned copy: %+v", again)
	}
}
