package transaction_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/xraph/ezcoin/transaction"
)

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		typ     transaction.Type
		amount  int64
		wantErr bool
	}{
		{"purchase", transaction.TypePurchase, 50, false},
		{"spend", transaction.TypeSpend, 3, false},
		{"zero amount", transaction.TypeSpend, 0, true},
		{"negative amount", transaction.TypePurchase, -5, true},
		{"unknown type", transaction.Type("refund"), 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, err := transaction.New(tt.typ, tt.amount, "Create post", t0)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", txn)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if txn.ID.IsNil() {
				t.Error("expected an ID")
			}
			if txn.Amount != tt.amount || txn.Type != tt.typ {
				t.Errorf("got %+v", txn)
			}
		})
	}
}

func TestNewInvalidAmountSentinel(t *testing.T) {
	_, err := transaction.New(transaction.TypeSpend, 0, "x", t0)
	if !errors.Is(err, transaction.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	_, err = transaction.New("gift", 1, "x", t0)
	var typeErr *transaction.InvalidTypeError
	if !errors.As(err, &typeErr) || typeErr.Type != "gift" {
		t.Errorf("expected InvalidTypeError, got %v", err)
	}
}

func TestReplay(t *testing.T) {
	txns := []*transaction.Transaction{
		mustNew(t, transaction.TypeSpend, 3, t0),
		mustNew(t, transaction.TypePurchase, 50, t0.Add(time.Minute)),
		mustNew(t, transaction.TypeSpend, 10, t0.Add(2*time.Minute)),
	}
	if got := transaction.Replay(50, txns); got != 87 {
		t.Errorf("Replay = %d, want 87", got)
	}
	if got := transaction.Replay(50, nil); got != 50 {
		t.Errorf("Replay(empty) = %d, want 50", got)
	}
}

func TestNewestFirst(t *testing.T) {
	first := mustNew(t, transaction.TypeSpend, 1, t0)
	second := mustNew(t, transaction.TypeSpend, 2, t0.Add(time.Second))
	third := mustNew(t, transaction.TypePurchase, 3, t0.Add(2*time.Second))
	in := []*transaction.Transaction{first, second, third}

	got := transaction.NewestFirst(in)
	want := []*transaction.Transaction{third, second, first}
	for i := range want {
		if got[i].ID.String() != want[i].ID.String() {
			t.Fatalf("position %d: got amount %d, want %d", i, got[i].Amount, want[i].Amount)
		}
	}
	if in[0] != first {
		t.Error("NewestFirst must not reorder its input")
	}
	got[0].Amount = 99
	if third.Amount != 3 {
		t.Error("NewestFirst result shares entries with its input")
	}
}

func TestPurchasePurpose(t *testing.T) {
	if got := transaction.PurchasePurpose("Credit Card"); got != "Purchased via Credit Card" {
		t.Errorf("got %q", got)
	}
}

func TestJSONShape(t *testing.T) {
	txn := mustNew(t, transaction.TypeSpend, 3, t0)
	txn.Purpose = "Create post"
	data, err := json.Marshal(txn)
	if err != nil {
		t.Fatal(err)
	}

	var decoded transaction.Transaction
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.ID.String() != txn.ID.String() || !decoded.Timestamp.Equal(t0) || decoded.Purpose != "Create post" {
		t.Errorf("decoded %+v from %s", decoded, data)
	}
	if err := decoded.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func mustNew(t *testing.T, typ transaction.Type, amount int64, at time.Time) *transaction.Transaction {
	t.Helper()
	txn, err := transaction.New(typ, amount, "test", at)
	if err != nil {
		t.Fatal(err)
	}
	return txn
}
