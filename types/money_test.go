package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMoneyString(t *testing.T) {
	tests := []struct {
		name    string
		money   Money
		display string
	}{
		{"package price", USD(99), "$0.99"},
		{"popular package", USD(399), "$3.99"},
		{"large package", USD(2499), "$24.99"},
		{"EUR", EUR(19900), "€199.00"},
		{"GBP", GBP(905), "£9.05"},
		{"zero", Zero("USD"), "$0.00"},
		{"negative", USD(-150), "$-1.50"},
		{"unknown currency", Money{Amount: 100, Currency: "chf"}, "CHF 1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.String(); got != tt.display {
				t.Errorf("String() = %q, want %q", got, tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	if got := USD(99).Add(USD(399)); !got.Equal(USD(498)) {
		t.Errorf("Add = %v, want $4.98", got)
	}
	if got := USD(699).Multiply(3); !got.Equal(USD(2097)) {
		t.Errorf("Multiply = %v, want $20.97", got)
	}
	if USD(0).IsPositive() {
		t.Error("zero should not be positive")
	}
}

func TestMoneyAddCurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on currency mismatch")
		}
	}()
	_ = USD(100).Add(EUR(100))
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(USD(399))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"amount":399,"currency":"usd","display":"$3.99"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(USD(399)) {
		t.Errorf("round-trip = %v, want $3.99", back)
	}
}

func TestEntityAt(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, loc)
	e := EntityAt(at)
	if e.CreatedAt.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", e.CreatedAt.Location())
	}
	if !e.CreatedAt.Equal(at) || !e.UpdatedAt.Equal(at) {
		t.Errorf("timestamps not set: %+v", e)
	}

	later := at.Add(time.Hour)
	e.Touch(later)
	if !e.UpdatedAt.Equal(later) || !e.CreatedAt.Equal(at) {
		t.Errorf("Touch changed the wrong field: %+v", e)
	}
	if e.IsZero() {
		t.Error("stamped entity should not be zero")
	}
}
