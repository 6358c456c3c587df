package planner_test

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/xraph/ezcoin/artifact"
	"github.com/xraph/ezcoin/planner"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func TestExpandNonRecurring(t *testing.T) {
	tmpl := planner.Event{
		ID:        "evt-1",
		Title:     "Dentist",
		Date:      date(2024, 1, 1),
		Reminders: []int{15, 60},
	}

	got, err := planner.NewExpander(artifact.NewSequence()).Expand(tmpl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], tmpl) {
		t.Errorf("expected [template], got %+v", got)
	}
}

func TestExpandRecurringWithZeroCount(t *testing.T) {
	tmpl := planner.Event{
		ID: "evt-1", Title: "Standup", Date: date(2024, 1, 1),
		IsRecurring: true, RecurrenceType: planner.RecurrenceDaily,
	}
	got, err := planner.NewExpander(nil).Expand(tmpl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], tmpl) {
		t.Errorf("expected [template], got %+v", got)
	}
}

func TestExpandDaily(t *testing.T) {
	tmpl := planner.Event{
		ID: "evt-1", Title: "Standup", Description: "daily sync",
		Date:        date(2024, 2, 27),
		IsRecurring: true, RecurrenceType: planner.RecurrenceDaily, RecurrenceCount: 3,
		VideoURL: "https://example.com/v.mp4", Reminders: []int{5},
	}

	got, err := planner.NewExpander(artifact.NewSequence()).Expand(tmpl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 instances, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], tmpl) {
		t.Errorf("first instance must be the template, got %+v", got[0])
	}

	wantDates := []time.Time{date(2024, 2, 27), date(2024, 2, 28), date(2024, 2, 29), date(2024, 3, 1)}
	wantIDs := []string{"evt-1", "evt-1-recur-1", "evt-1-recur-2", "evt-1-recur-3"}
	for i, e := range got {
		if !e.Date.Equal(wantDates[i]) {
			t.Errorf("instance %d date = %v, want %v", i, e.Date, wantDates[i])
		}
		if e.ID != wantIDs[i] {
			t.Errorf("instance %d id = %q, want %q", i, e.ID, wantIDs[i])
		}
		if i == 0 {
			if e.OriginalEventID != "" {
				t.Errorf("template must not carry originalEventId, got %q", e.OriginalEventID)
			}
			continue
		}
		if e.OriginalEventID != "evt-1" {
			t.Errorf("instance %d originalEventId = %q", i, e.OriginalEventID)
		}
		if e.Title != tmpl.Title || e.Description != tmpl.Description || e.VideoURL != tmpl.VideoURL {
			t.Errorf("instance %d did not inherit template fields: %+v", i, e)
		}
		if e.IPFSHash != "" || e.NFTTokenID != "" {
			t.Errorf("non-permanent instance %d has artifacts: %+v", i, e)
		}
	}

	// Instances own their reminder slices.
	got[1].Reminders[0] = 99
	if tmpl.Reminders[0] != 5 || got[2].Reminders[0] != 5 {
		t.Error("instances share reminder storage")
	}
}

func TestExpandWeekly(t *testing.T) {
	tmpl := planner.Event{
		ID: "evt-w", Title: "Review", Date: date(2024, 1, 1),
		IsRecurring: true, RecurrenceType: planner.RecurrenceWeekly, RecurrenceCount: 2,
	}
	got, err := planner.NewExpander(nil).Expand(tmpl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []time.Time{date(2024, 1, 1), date(2024, 1, 8), date(2024, 1, 15)}
	if len(got) != len(want) {
		t.Fatalf("expected %d instances, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Date.Equal(want[i]) {
			t.Errorf("instance %d date = %v, want %v", i, got[i].Date, want[i])
		}
		if got[i].Date.Weekday() != time.Monday {
			t.Errorf("instance %d moved off Monday: %v", i, got[i].Date.Weekday())
		}
	}
}

func TestExpandMonthlyClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		count int
		want  []time.Time
	}{
		{
			name:  "leap year from the 31st",
			start: date(2024, 1, 31),
			count: 3,
			want:  []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2024, 3, 29), date(2024, 4, 29)},
		},
		{
			name:  "common year from the 31st",
			start: date(2023, 1, 31),
			count: 2,
			want:  []time.Time{date(2023, 1, 31), date(2023, 2, 28), date(2023, 3, 28)},
		},
		{
			name:  "30th into a 31-day month",
			start: date(2024, 4, 30),
			count: 2,
			want:  []time.Time{date(2024, 4, 30), date(2024, 5, 30), date(2024, 6, 30)},
		},
		{
			name:  "across year end",
			start: date(2024, 11, 15),
			count: 2,
			want:  []time.Time{date(2024, 11, 15), date(2024, 12, 15), date(2025, 1, 15)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := planner.Event{
				ID: "evt-m", Title: "Rent", Date: tt.start,
				IsRecurring: true, RecurrenceType: planner.RecurrenceMonthly, RecurrenceCount: tt.count,
			}
			// Run twice: the rule must be stable across repeated runs.
			for run := 0; run < 2; run++ {
				got, err := planner.NewExpander(nil).Expand(tmpl)
				if err != nil {
					t.Fatalf("Expand: %v", err)
				}
				if len(got) != len(tt.want) {
					t.Fatalf("expected %d instances, got %d", len(tt.want), len(got))
				}
				for i := range tt.want {
					if !got[i].Date.Equal(tt.want[i]) {
						t.Errorf("run %d instance %d date = %v, want %v", run, i, got[i].Date, tt.want[i])
					}
				}
			}
		})
	}
}

func TestExpandPermanentGetsFreshArtifacts(t *testing.T) {
	tmpl := planner.Event{
		ID: "evt-p", Title: "Graduation", Date: date(2024, 6, 1),
		IsPermanent: true, IPFSHash: "QmTemplateHash", NFTTokenID: "0001",
		IsRecurring: true, RecurrenceType: planner.RecurrenceDaily, RecurrenceCount: 3,
	}

	got, err := planner.NewExpander(artifact.NewSequence()).Expand(tmpl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got[0].IPFSHash != "QmTemplateHash" || got[0].NFTTokenID != "0001" {
		t.Errorf("template artifacts changed: %+v", got[0])
	}

	wantHashes := []string{"QmTest0001", "QmTest0002", "QmTest0003"}
	wantTokens := []string{"1001", "1002", "1003"}
	for i, e := range got[1:] {
		if !e.IsPermanent {
			t.Errorf("instance %d lost permanence", i+1)
		}
		if e.IPFSHash != wantHashes[i] || e.NFTTokenID != wantTokens[i] {
			t.Errorf("instance %d artifacts = %q/%q, want %q/%q",
				i+1, e.IPFSHash, e.NFTTokenID, wantHashes[i], wantTokens[i])
		}
	}
}

func TestExpandRandomArtifactsAreDistinct(t *testing.T) {
	tmpl := planner.Event{
		ID: "evt-p", Title: "Anniversary", Date: date(2024, 6, 1),
		IsPermanent: true, IPFSHash: artifact.Random{}.IPFSHash(), NFTTokenID: artifact.Random{}.NFTTokenID(),
		IsRecurring: true, RecurrenceType: planner.RecurrenceMonthly, RecurrenceCount: 24,
	}
	got, err := planner.NewExpander(artifact.Random{}).Expand(tmpl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	hashes := make(map[string]bool)
	tokens := make(map[string]bool)
	for _, e := range got {
		if hashes[e.IPFSHash] || tokens[e.NFTTokenID] {
			t.Fatalf("duplicate artifact on %s: %q/%q", e.ID, e.IPFSHash, e.NFTTokenID)
		}
		hashes[e.IPFSHash] = true
		tokens[e.NFTTokenID] = true
	}
}

func TestExpandIsRepeatable(t *testing.T) {
	tmpl := planner.Event{
		ID: "evt-r", Title: "Gym", Date: date(2024, 3, 3), IsPermanent: true,
		IsRecurring: true, RecurrenceType: planner.RecurrenceWeekly, RecurrenceCount: 4,
	}
	first, err := planner.NewExpander(artifact.NewSequence()).Expand(tmpl)
	if err != nil {
		t.Fatal(err)
	}
	second, err := planner.NewExpander(artifact.NewSequence()).Expand(tmpl)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expansion with identical generators differs between runs")
	}
}

func TestExpandInvalidRule(t *testing.T) {
	tests := []struct {
		name string
		tmpl planner.Event
	}{
		{"negative count", planner.Event{
			ID: "x", Title: "x", Date: date(2024, 1, 1),
			IsRecurring: true, RecurrenceType: planner.RecurrenceDaily, RecurrenceCount: -1,
		}},
		{"missing type", planner.Event{
			ID: "x", Title: "x", Date: date(2024, 1, 1),
			IsRecurring: true, RecurrenceCount: 2,
		}},
		{"unknown type", planner.Event{
			ID: "x", Title: "x", Date: date(2024, 1, 1),
			IsRecurring: true, RecurrenceType: "yearly", RecurrenceCount: 2,
		}},
		{"count above limit", planner.Event{
			ID: "x", Title: "x", Date: date(2024, 1, 1),
			IsRecurring: true, RecurrenceType: planner.RecurrenceDaily, RecurrenceCount: planner.MaxRecurrenceCount + 1,
		}},
		{"max int count", planner.Event{
			ID: "x", Title: "x", Date: date(2024, 1, 1), IsPermanent: true,
			IsRecurring: true, RecurrenceType: planner.RecurrenceDaily, RecurrenceCount: math.MaxInt,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.tmpl.Validate(); !errors.Is(err, planner.ErrInvalidRecurrenceRule) {
				t.Fatalf("Validate: expected ErrInvalidRecurrenceRule, got %v", err)
			}
			got, err := planner.NewExpander(nil).Expand(tt.tmpl)
			if !errors.Is(err, planner.ErrInvalidRecurrenceRule) {
				t.Fatalf("expected ErrInvalidRecurrenceRule, got %v", err)
			}
			if got != nil {
				t.Errorf("expected no instances, got %d", len(got))
			}
		})
	}
}

func TestExpandAtRecurrenceLimit(t *testing.T) {
	tmpl := planner.Event{
		ID: "x", Title: "x", Date: date(2024, 1, 1),
		IsRecurring: true, RecurrenceType: planner.RecurrenceDaily, RecurrenceCount: planner.MaxRecurrenceCount,
	}
	got, err := planner.NewExpander(nil).Expand(tmpl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(got) != planner.MaxRecurrenceCount+1 {
		t.Fatalf("expected %d instances, got %d", planner.MaxRecurrenceCount+1, len(got))
	}
}

func TestAdvancePreservesClockAndLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	start := time.Date(2024, 1, 31, 23, 15, 0, 0, loc)
	got := planner.AddMonths(start, 1)
	want := time.Date(2024, 2, 29, 23, 15, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("AddMonths = %v, want %v", got, want)
	}

	if back := planner.AddMonths(date(2024, 3, 31), -1); !back.Equal(date(2024, 2, 29)) {
		t.Errorf("AddMonths(-1) = %v", back)
	}
}
