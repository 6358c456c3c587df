package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/xraph/ezcoin/id"
)

// SuggestionDescription is attached to every generated suggestion.
const SuggestionDescription = "Suggested by EzAI based on your recent posts."

// Post is the slice of a social post that suggestions are derived from.
type Post struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type suggestionRule struct {
	keywords []string
	title    string // format with the quoted excerpt
	unit     RecurrenceType
}

var suggestionRules = []suggestionRule{
	{keywords: []string{"meeting", "call"}, title: `Follow up on "%s"`, unit: RecurrenceDaily},
	{keywords: []string{"project", "deadline"}, title: `Work on "%s" project`, unit: RecurrenceWeekly},
	{keywords: []string{"birthday", "anniversary"}, title: `Remember "%s"`, unit: RecurrenceMonthly},
}

// Suggest proposes non-permanent, non-recurring events from post keywords.
// A post can match several rules; each post is considered once.
func Suggest(posts []Post) []Event {
	var out []Event
	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		if p.ID != "" {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
		}
		lower := strings.ToLower(p.Content)
		for _, rule := range suggestionRules {
			if !containsAny(lower, rule.keywords) {
				continue
			}
			out = append(out, Event{
				ID:          id.NewSuggestionID().String(),
				Title:       fmt.Sprintf(rule.title, excerpt(p.Content)),
				Description: SuggestionDescription,
				Date:        Advance(p.Timestamp, rule.unit, 1),
			})
		}
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// excerpt is the first 20 characters followed by an ellipsis.
func excerpt(s string) string {
	r := []rune(s)
	if len(r) > 20 {
		r = r[:20]
	}
	return string(r) + "..."
}
