package sqlitekv_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xraph/ezcoin/kv"
	"github.com/xraph/ezcoin/kv/sqlitekv"
)

func openStore(t *testing.T, path string) *sqlitekv.Store {
	t.Helper()
	s, err := sqlitekv.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := sqlitekv.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "kv.db"))

	if _, err := s.Get(ctx, "ezcoin_balance"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "ezcoin_balance", "50"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetMulti(ctx, map[string]string{
		"ezcoin_balance":      "47",
		"ezcoin_transactions": `[{"amount":3}]`,
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "ezcoin_balance")
	if err != nil || got != "47" {
		t.Errorf("balance = %q, %v", got, err)
	}
	if err := s.Remove(ctx, "ezcoin_transactions"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "ezcoin_transactions"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("removed key still present: %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	first, err := sqlitekv.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(ctx, "planner_events", "[]"); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second := openStore(t, path)
	if got, err := second.Get(ctx, "planner_events"); err != nil || got != "[]" {
		t.Errorf("after reopen: %q, %v", got, err)
	}
}

func TestCompareAndSetMultiAcrossHandles(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")
	a, b := openStore(t, path), openStore(t, path)

	if err := a.CompareAndSetMulti(ctx, "log", "", map[string]string{"log": "[1]", "balance": "49"}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	// b still believes the key is absent.
	err := b.CompareAndSetMulti(ctx, "log", "", map[string]string{"log": "[2]", "balance": "48"})
	if !errors.Is(err, kv.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if got, _ := b.Get(ctx, "balance"); got != "49" {
		t.Errorf("balance = %q, want 49", got)
	}
	if err := b.CompareAndSetMulti(ctx, "log", "[1]", map[string]string{"log": "[1,2]", "balance": "48"}); err != nil {
		t.Fatalf("write with fresh guard: %v", err)
	}
}
