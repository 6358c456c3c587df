package ezcoin

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/xraph/ezcoin/id"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/transaction"
)

// ──────────────────────────────────────────────────
// Planner
// ──────────────────────────────────────────────────

// PlannerEvents is the outcome of creating one planner template.
type PlannerEvents struct {
	// Instances holds the template followed by its generated occurrences.
	Instances []planner.Event `json:"instances"`
	Cost      int64           `json:"cost"`
	// Transaction is the spend that paid for the events, nil when free.
	Transaction *transaction.Transaction `json:"transaction,omitempty"`
}

// CreatePlannerEvent charges owner for template, expands it and stores
// every instance.
//
// The cost is one coin for a permanent event plus one per recurrence. The
// spend happens first; a rejected spend leaves no events behind. The
// template gets a fresh evt_ ID and, when permanent, its own artifacts.
func (l *Ledger) CreatePlannerEvent(ctx context.Context, owner string, template planner.Event) (*PlannerEvents, error) {
	owner = strings.TrimSpace(owner)
	if err := template.Validate(); err != nil {
		return nil, err
	}

	template.ID = id.NewEventID().String()
	template.OriginalEventID = ""
	template.IPFSHash, template.NFTTokenID = "", ""
	if !template.IsRecurring {
		template.RecurrenceType, template.RecurrenceCount = "", 0
	}

	out := &PlannerEvents{Cost: planner.Cost(template)}
	if out.Cost > 0 {
		txn, err := l.Wallet(owner).Spend(ctx, out.Cost, planner.Purpose(template))
		if err != nil {
			return nil, err
		}
		out.Transaction = txn
	}

	if template.IsPermanent {
		template.IPFSHash = l.artifacts.IPFSHash()
		template.NFTTokenID = l.artifacts.NFTTokenID()
	}
	instances, err := l.expander.Expand(template)
	if err != nil {
		return nil, err
	}

	if err := l.store.AddEvents(context.WithoutCancel(ctx), owner, instances); err != nil {
		l.logger.Error("planner events not stored",
			"owner", owner,
			"event_id", template.ID,
			"instances", len(instances),
			"error", err,
		)
		l.plugins.EmitStorageFailed(ctx, owner, "add planner events", err)
		return nil, &StorageError{Op: "add planner events", Err: err}
	}
	out.Instances = instances

	l.logger.Info("planner events created",
		"owner", owner,
		"event_id", template.ID,
		"instances", len(instances),
		"cost", out.Cost,
	)
	l.plugins.EmitPlannerEventsCreated(ctx, owner, instances, out.Cost)
	return out, nil
}

// ListPlannerEvents returns every event of owner, ordered by date.
func (l *Ledger) ListPlannerEvents(ctx context.Context, owner string) ([]planner.Event, error) {
	events, err := l.store.ListEvents(ctx, strings.TrimSpace(owner))
	if err != nil {
		return nil, &StorageError{Op: "list planner events", Err: err}
	}
	return events, nil
}

// CalendarView is owner's events inside one day, week or month.
type CalendarView struct {
	View     planner.View    `json:"view"`
	Label    string          `json:"label"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Previous time.Time       `json:"previous"`
	Next     time.Time       `json:"next"`
	Events   []planner.Event `json:"events"`
}

// PlannerView filters owner's events to the view window around date.
func (l *Ledger) PlannerView(ctx context.Context, owner string, view planner.View, date time.Time) (*CalendarView, error) {
	events, err := l.ListPlannerEvents(ctx, owner)
	if err != nil {
		return nil, err
	}
	start, end := planner.Range(view, date)
	return &CalendarView{
		View:     view,
		Label:    planner.Label(view, date),
		Start:    start,
		End:      end,
		Previous: planner.Navigate(view, date, -1),
		Next:     planner.Navigate(view, date, 1),
		Events:   planner.Filter(events, view, date),
	}, nil
}

// ExportPlannerEvents writes owner's events to w in format.
func (l *Ledger) ExportPlannerEvents(ctx context.Context, owner string, w io.Writer, format planner.Format) error {
	events, err := l.ListPlannerEvents(ctx, owner)
	if err != nil {
		return err
	}
	return planner.Export(w, format, events)
}

// SuggestPlannerEvents proposes events from recent posts. Suggestions are
// free and nothing is stored until the caller creates one.
func (l *Ledger) SuggestPlannerEvents(posts []planner.Post) []planner.Event {
	return planner.Suggest(posts)
}
