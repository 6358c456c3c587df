package planner

import (
	"fmt"
	"math"
)

// Cost is the coin price of creating template: one coin to make it
// permanent plus one per additional recurrence. Counts beyond any valid rule
// saturate at math.MaxInt64 so the price never wraps negative.
func Cost(template Event) int64 {
	var cost int64
	if template.IsPermanent {
		cost++
	}
	if template.IsRecurring && template.RecurrenceCount > 0 {
		n := int64(template.RecurrenceCount)
		if n > math.MaxInt64-cost {
			return math.MaxInt64
		}
		cost += n
	}
	return cost
}

// Purpose is the ledger purpose recorded when template is paid for.
func Purpose(template Event) string {
	recurring := "No"
	if template.IsRecurring {
		recurring = fmt.Sprintf("%dx %s", template.RecurrenceCount, template.RecurrenceType)
	}
	return fmt.Sprintf("Create Planner Event (Permanent: %t, Recurring: %s)", template.IsPermanent, recurring)
}
