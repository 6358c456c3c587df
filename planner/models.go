// Package planner models planner events and expands recurring templates into
// materialized calendar instances.
package planner

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidRecurrenceRule = errors.New("ezcoin: invalid recurrence rule")
	ErrInvalidEvent          = errors.New("ezcoin: invalid planner event")
	ErrUnknownView           = errors.New("ezcoin: unknown planner view")
	ErrUnknownFormat         = errors.New("ezcoin: unknown export format")
)

// MaxRecurrenceCount bounds the instances one template may generate: ten
// years of daily occurrences.
const MaxRecurrenceCount = 3650

// RecurrenceType is the unit a recurring event advances by.
type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// Valid reports whether r is a known recurrence unit.
func (r RecurrenceType) Valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Event is both the user-authored template and a materialized instance.
// Instances after the first carry OriginalEventID.
type Event struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Date            time.Time      `json:"date"`
	IsPermanent     bool           `json:"isPermanent"`
	IPFSHash        string         `json:"ipfsHash,omitempty"`
	NFTTokenID      string         `json:"nftTokenId,omitempty"`
	IsRecurring     bool           `json:"isRecurring"`
	RecurrenceType  RecurrenceType `json:"recurrenceType,omitempty"`
	RecurrenceCount int            `json:"recurrenceCount,omitempty"`
	VideoURL        string         `json:"videoUrl,omitempty"`
	AudioURL        string         `json:"audioUrl,omitempty"`
	Reminders       []int          `json:"reminders,omitempty"` // minutes before the event
	OriginalEventID string         `json:"originalEventId,omitempty"`
}

// Clone returns a copy that shares no slices with e.
func (e Event) Clone() Event {
	e.Reminders = slices.Clone(e.Reminders)
	return e
}

// IsInstance reports whether e was generated from another event.
func (e Event) IsInstance() bool { return e.OriginalEventID != "" }

// Validate checks the fields a caller supplies when authoring a template.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEvent)
	}
	seen := make(map[int]bool, len(e.Reminders))
	for _, m := range e.Reminders {
		if m < 0 {
			return fmt.Errorf("%w: reminder %d is negative", ErrInvalidEvent, m)
		}
		if seen[m] {
			return fmt.Errorf("%w: duplicate reminder %d", ErrInvalidEvent, m)
		}
		seen[m] = true
	}
	return e.validateRule()
}

func (e Event) validateRule() error {
	if !e.IsRecurring {
		return nil
	}
	if e.RecurrenceCount < 0 {
		return fmt.Errorf("%w: recurrence count %d is negative", ErrInvalidRecurrenceRule, e.RecurrenceCount)
	}
	if e.RecurrenceCount > MaxRecurrenceCount {
		return fmt.Errorf("%w: recurrence count %d exceeds %d",
			ErrInvalidRecurrenceRule, e.RecurrenceCount, MaxRecurrenceCount)
	}
	if e.RecurrenceType == "" {
		return fmt.Errorf("%w: recurrence type is missing", ErrInvalidRecurrenceRule)
	}
	if !e.RecurrenceType.Valid() {
		return fmt.Errorf("%w: unknown recurrence type %q", ErrInvalidRecurrenceRule, string(e.RecurrenceType))
	}
	return nil
}

// SortByDate orders events by date ascending, keeping the relative order of
// events that share a date.
func SortByDate(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Date.Compare(b.Date)
	})
}
