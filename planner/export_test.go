package planner_test

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xraph/ezcoin/planner"
)

func exportFixture() []planner.Event {
	return []planner.Event{
		{
			ID: "evt-1", Title: "Graduation", Description: `The "big" day`,
			Date:        time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
			IsPermanent: true, IPFSHash: "QmTest0001", NFTTokenID: "1001",
			IsRecurring: true, RecurrenceType: planner.RecurrenceMonthly, RecurrenceCount: 2,
			VideoURL: "https://example.com/v.mp4", AudioURL: "https://example.com/a.mp3",
			Reminders: []int{15, 60},
		},
		{
			ID: "evt-2", Title: "Lunch, maybe",
			Date: time.Date(2024, 6, 2, 12, 30, 0, 0, time.UTC),
		},
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	events := exportFixture()
	var buf bytes.Buffer
	if err := planner.ExportJSON(&buf, events); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("export is not a JSON array: %v", err)
	}
	if raw[1]["description"] != "" || raw[1]["reminders"] != "" || raw[1]["recurrenceCount"] != float64(0) {
		t.Errorf("absent optionals should be empty: %+v", raw[1])
	}
	if raw[0]["date"] != "2024-06-01T14:00:00.000Z" || raw[0]["reminders"] != "15,60" {
		t.Errorf("unexpected flattened record: %+v", raw[0])
	}

	back, err := planner.ParseJSON(&buf)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(back) != len(events) {
		t.Fatalf("got %d events, want %d", len(back), len(events))
	}
	for i := range events {
		if !reflect.DeepEqual(planner.ToRecord(back[i]), planner.ToRecord(events[i])) {
			t.Errorf("event %d differs after round trip:\n got %+v\nwant %+v", i, back[i], events[i])
		}
		if !back[i].Date.Equal(events[i].Date) {
			t.Errorf("event %d date = %v, want %v", i, back[i].Date, events[i].Date)
		}
	}
}

func TestExportCSV(t *testing.T) {
	events := exportFixture()
	var buf bytes.Buffer
	if err := planner.ExportCSV(&buf, events); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	wantHeader := "id,title,description,date,isPermanent,ipfsHash,nftTokenId,isRecurring,recurrenceType,recurrenceCount,videoUrl,audioUrl,reminders"
	if lines[0] != wantHeader {
		t.Errorf("header = %q", lines[0])
	}
	wantRow := `"evt-2","Lunch, maybe","","2024-06-02T12:30:00.000Z","false","","","false","","0","","",""`
	if lines[2] != wantRow {
		t.Errorf("row = %q\nwant  %q", lines[2], wantRow)
	}

	back, err := planner.ParseCSV(&buf)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	for i := range events {
		if !reflect.DeepEqual(planner.ToRecord(back[i]), planner.ToRecord(events[i])) {
			t.Errorf("event %d differs after CSV round trip: %+v", i, back[i])
		}
	}
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := planner.ExportJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q", buf.String())
	}
}

func TestFormat(t *testing.T) {
	f, err := planner.ParseFormat("CSV")
	if err != nil || f != planner.FormatCSV {
		t.Fatalf("ParseFormat = %q, %v", f, err)
	}
	if f.FileName() != "eznote_planner_events.csv" || f.ContentType() != "text/csv" {
		t.Errorf("unexpected format metadata: %s %s", f.FileName(), f.ContentType())
	}
	if planner.FormatJSON.FileName() != "eznote_planner_events.json" {
		t.Errorf("json file name = %q", planner.FormatJSON.FileName())
	}
}

func TestValidate(t *testing.T) {
	ok := planner.Event{Title: "x", Date: time.Now(), Reminders: []int{5, 10}}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for name, e := range map[string]planner.Event{
		"no title":           {Date: time.Now()},
		"no date":            {Title: "x"},
		"negative reminder":  {Title: "x", Date: time.Now(), Reminders: []int{-1}},
		"duplicate reminder": {Title: "x", Date: time.Now(), Reminders: []int{5, 5}},
		"bad rule":           {Title: "x", Date: time.Now(), IsRecurring: true, RecurrenceCount: 1},
	} {
		if err := e.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
