package traillog

import "time"

// A Model is the essential data points for primary ID-based models in the
// trail log, indicating when a record was created and last updated.
//
// CreatedAt is set once on insert and never changes afterwards.
type Model struct {
	ID        uint      `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Exists asserts whether the record has been persisted.
func (m Model) Exists() bool { return !m.CreatedAt.IsZero() }
