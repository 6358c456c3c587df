// Package storetest is a conformance suite every store.Store backend runs
// from its own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/store"
	"github.com/xraph/ezcoin/transaction"
)

var epoch = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

// Run exercises s. It expects an empty, migrated store.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	t.Run("AccountNotFound", func(t *testing.T) { testAccountNotFound(t, s) })
	t.Run("AccountRoundTrip", func(t *testing.T) { testAccountRoundTrip(t, s) })
	t.Run("VersionConflict", func(t *testing.T) { testVersionConflict(t, s) })
	t.Run("EventsSortedPerOwner", func(t *testing.T) { testEvents(t, s) })
	t.Run("Ping", func(t *testing.T) {
		if err := s.Ping(context.Background()); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	})
}

func spend(t *testing.T, a *account.Account, amount int64, at time.Time) *account.Account {
	t.Helper()
	txn, err := transaction.New(transaction.TypeSpend, amount, "Create post", at)
	if err != nil {
		t.Fatal(err)
	}
	return a.Apply(txn)
}

func testAccountNotFound(t *testing.T, s store.Store) {
	_, err := s.GetAccount(context.Background(), "0xmissing")
	if !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("expected account.ErrNotFound, got %v", err)
	}
}

func testAccountRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, addr := range []string{account.DefaultAddress, "0xroundtrip"} {
		next := spend(t, account.New(addr, 50, epoch), 3, epoch.Add(time.Minute))
		if err := s.SaveAccount(ctx, next); err != nil {
			t.Fatalf("SaveAccount(%q): %v", addr, err)
		}

		got, err := s.GetAccount(ctx, addr)
		if err != nil {
			t.Fatalf("GetAccount(%q): %v", addr, err)
		}
		if got.Balance != 47 || got.Version != 1 || len(got.Transactions) != 1 {
			t.Fatalf("got balance=%d version=%d txns=%d", got.Balance, got.Version, len(got.Transactions))
		}
		txn := got.Transactions[0]
		if txn.ID.String() != next.Transactions[0].ID.String() || txn.Amount != 3 ||
			txn.Type != transaction.TypeSpend || txn.Purpose != "Create post" {
			t.Errorf("transaction mismatch: %+v", txn)
		}
		if !txn.Timestamp.Equal(epoch.Add(time.Minute)) {
			t.Errorf("timestamp = %v", txn.Timestamp)
		}
		if err := got.Verify(); err != nil {
			t.Errorf("Verify: %v", err)
		}
	}
}

func testVersionConflict(t *testing.T, s store.Store) {
	ctx := context.Background()
	addr := "0xconflict"

	first := spend(t, account.New(addr, 50, epoch), 1, epoch)
	if err := s.SaveAccount(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAccount(ctx, first); !errors.Is(err, account.ErrVersionConflict) {
		t.Errorf("re-creating account: expected conflict, got %v", err)
	}

	skipped := spend(t, spend(t, first, 1, epoch), 1, epoch)
	if err := s.SaveAccount(ctx, skipped); !errors.Is(err, account.ErrVersionConflict) {
		t.Errorf("skipping a version: expected conflict, got %v", err)
	}

	second := spend(t, first, 2, epoch.Add(time.Second))
	if err := s.SaveAccount(ctx, second); err != nil {
		t.Fatalf("SaveAccount v2: %v", err)
	}
	got, err := s.GetAccount(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance != 47 || got.Version != 2 {
		t.Errorf("got balance=%d version=%d, want 47/2", got.Balance, got.Version)
	}
}

func testEvents(t *testing.T, s store.Store) {
	ctx := context.Background()

	empty, err := s.ListEvents(ctx, "0xnobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no events, got %d", len(empty))
	}

	later := planner.Event{ID: "evt_b", Title: "Later", Date: epoch.AddDate(0, 0, 2), Reminders: []int{15, 60}}
	sooner := planner.Event{ID: "evt_a", Title: "Sooner", Date: epoch, IsPermanent: true, IPFSHash: "QmTest0001", NFTTokenID: "1001"}
	if err := s.AddEvents(ctx, "0xplanner", []planner.Event{later}); err != nil {
		t.Fatal(err)
	}
	instance := planner.Event{ID: "evt_a-recur-1", Title: "Sooner", Date: epoch.AddDate(0, 0, 1),
		IsRecurring: true, RecurrenceType: planner.RecurrenceDaily, RecurrenceCount: 1, OriginalEventID: "evt_a"}
	if err := s.AddEvents(ctx, "0xplanner", []planner.Event{sooner, instance}); err != nil {
		t.Fatal(err)
	}
	if err := s.AddEvents(ctx, "0xother", []planner.Event{{ID: "evt_c", Title: "Other", Date: epoch}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListEvents(ctx, "0xplanner")
	if err != nil {
		t.Fatal(err)
	}
	wantIDs := []string{"evt_a", "evt_a-recur-1", "evt_b"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d events, want %d", len(got), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("event %d = %q, want %q", i, got[i].ID, want)
		}
	}
	if got[0].IPFSHash != "QmTest0001" || !got[0].IsPermanent {
		t.Errorf("permanent fields lost: %+v", got[0])
	}
	if got[1].OriginalEventID != "evt_a" || got[1].RecurrenceType != planner.RecurrenceDaily {
		t.Errorf("instance fields lost: %+v", got[1])
	}
	if len(got[2].Reminders) != 2 || got[2].Reminders[1] != 60 {
		t.Errorf("reminders lost: %v", got[2].Reminders)
	}
	if !got[2].Date.Equal(later.Date) {
		t.Errorf("date = %v, want %v", got[2].Date, later.Date)
	}
}
