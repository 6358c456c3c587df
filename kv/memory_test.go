package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/ezcoin/kv"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := m.Set(ctx, "a", "1"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetMulti(ctx, map[string]string{"a": "2", "b": "3"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct{ key, want string }{{"a", "2"}, {"b", "3"}}
	for _, tt := range tests {
		got, err := m.Get(ctx, tt.key)
		if err != nil || got != tt.want {
			t.Errorf("Get(%q) = %q, %v; want %q", tt.key, got, err, tt.want)
		}
	}

	if err := m.Remove(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "a"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("removed key still present: %v", err)
	}
	if m.Keys() != 1 {
		t.Errorf("Keys = %d, want 1", m.Keys())
	}
}

func TestMemoryCompareAndSetMulti(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()

	if err := m.CompareAndSetMulti(ctx, "log", "", map[string]string{"log": "a"}); err != nil {
		t.Fatal(err)
	}
	if err := m.CompareAndSetMulti(ctx, "log", "", map[string]string{"log": "b"}); !errors.Is(err, kv.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if v, _ := m.Get(ctx, "log"); v != "a" {
		t.Errorf("log = %q, want a", v)
	}
}
