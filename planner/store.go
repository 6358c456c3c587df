package planner

import "context"

// Store persists materialized events per owner address.
type Store interface {
	// AddEvents appends events for owner. All or none are written.
	AddEvents(ctx context.Context, owner string, events []Event) error
	// ListEvents returns owner's events ordered by date ascending.
	ListEvents(ctx context.Context, owner string) ([]Event, error)
}
