package planner

import (
	"fmt"
	"time"

	"github.com/xraph/ezcoin/artifact"
)

// Expander materializes recurring templates. The artifact generator is its
// only non-deterministic input.
type Expander struct {
	artifacts artifact.Generator
}

// NewExpander returns an Expander drawing permanent-instance artifacts from g.
// A nil g uses artifact.Random.
func NewExpander(g artifact.Generator) *Expander {
	if g == nil {
		g = artifact.Random{}
	}
	return &Expander{artifacts: g}
}

// Expand returns the template followed by one instance per recurrence.
//
// Each instance is advanced one unit from the previous instance's date, not
// from the template's. Monthly steps keep the day of month and clamp to the
// last day of shorter months; later steps continue from the clamped date.
// Permanent instances get fresh artifacts. An invalid rule yields no events.
func (x *Expander) Expand(template Event) ([]Event, error) {
	if err := template.validateRule(); err != nil {
		return nil, err
	}
	if !template.IsRecurring || template.RecurrenceCount == 0 {
		return []Event{template}, nil
	}

	out := make([]Event, 0, template.RecurrenceCount+1)
	out = append(out, template)

	date := template.Date
	for i := 1; i <= template.RecurrenceCount; i++ {
		date = Advance(date, template.RecurrenceType, 1)

		inst := template.Clone()
		inst.ID = InstanceID(template.ID, i)
		inst.Date = date
		inst.OriginalEventID = template.ID
		inst.IPFSHash, inst.NFTTokenID = "", ""
		if inst.IsPermanent {
			inst.IPFSHash = x.artifacts.IPFSHash()
			inst.NFTTokenID = x.artifacts.NFTTokenID()
		}
		out = append(out, inst)
	}
	return out, nil
}

// InstanceID is the ID of the i-th generated instance of templateID.
func InstanceID(templateID string, i int) string {
	return fmt.Sprintf("%s-recur-%d", templateID, i)
}

// Advance moves t by n units of r in t's location. Unknown units return t.
func Advance(t time.Time, r RecurrenceType, n int) time.Time {
	switch r {
	case RecurrenceDaily:
		return t.AddDate(0, 0, n)
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7*n)
	case RecurrenceMonthly:
		return AddMonths(t, n)
	}
	return t
}

// AddMonths adds n calendar months, clamping the day to the end of the
// target month (31 Jan + 1 month = 29 Feb in a leap year). time.AddDate
// would roll the overflow into the following month instead.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
