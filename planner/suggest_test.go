package planner_test

import (
	"strings"
	"testing"
	"time"

	"github.com/xraph/ezcoin/planner"
)

func TestSuggest(t *testing.T) {
	at := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	posts := []planner.Post{
		{ID: "p1", Content: "Team meeting about the launch went well", Timestamp: at},
		{ID: "p2", Content: "Project deadline is close", Timestamp: at},
		{ID: "p3", Content: "Mom's birthday party", Timestamp: at},
		{ID: "p4", Content: "Nothing to plan here", Timestamp: at},
		{ID: "p1", Content: "Team meeting about the launch went well", Timestamp: at},
	}

	got := planner.Suggest(posts)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d: %+v", len(got), got)
	}

	want := []struct {
		title string
		date  time.Time
	}{
		{`Follow up on "Team meeting about t..."`, at.AddDate(0, 0, 1)},
		{`Work on "Project deadline is ..." project`, at.AddDate(0, 0, 7)},
		{`Remember "Mom's birthday party..."`, time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)},
	}
	for i, w := range want {
		s := got[i]
		if s.Title != w.title {
			t.Errorf("suggestion %d title = %q, want %q", i, s.Title, w.title)
		}
		if !s.Date.Equal(w.date) {
			t.Errorf("suggestion %d date = %v, want %v", i, s.Date, w.date)
		}
		if s.Description != planner.SuggestionDescription {
			t.Errorf("suggestion %d description = %q", i, s.Description)
		}
		if s.IsPermanent || s.IsRecurring {
			t.Errorf("suggestion %d should be a plain event: %+v", i, s)
		}
		if !strings.HasPrefix(s.ID, "sugg_") {
			t.Errorf("suggestion %d id = %q", i, s.ID)
		}
	}
}

func TestSuggestMultipleRulesPerPost(t *testing.T) {
	posts := []planner.Post{{ID: "p", Content: "Call about the project", Timestamp: time.Now()}}
	if got := planner.Suggest(posts); len(got) != 2 {
		t.Errorf("expected 2 suggestions, got %d", len(got))
	}
}
