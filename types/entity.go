// Package types provides value types shared across EzCoin packages.
package types

import "time"

// Entity carries creation and modification timestamps for persisted records.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity creates an Entity stamped with the current UTC time.
func NewEntity() Entity {
	return EntityAt(time.Now())
}

// EntityAt creates an Entity stamped with t in UTC.
func EntityAt(t time.Time) Entity {
	t = t.UTC()
	return Entity{CreatedAt: t, UpdatedAt: t}
}

// Touch sets UpdatedAt to t in UTC.
func (e *Entity) Touch(t time.Time) {
	e.UpdatedAt = t.UTC()
}

// IsZero reports whether the entity was never stamped.
func (e Entity) IsZero() bool {
	return e.CreatedAt.IsZero()
}
