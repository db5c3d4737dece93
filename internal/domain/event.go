// Package domain contains the core business entities and domain logic for the MeetLog tracker.
package domain

import (
	"fmt"
	"time"
)

// Event represents an attended event cached from the remote listing service.
// EventKey is the externally-assigned identity; it is globally unique in the
// local store. Rows are written only by the sync coordinator, never by
// callers directly.
type Event struct {
	EventKey  int64      `json:"event_key"`
	Title     string     `json:"title"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Place     string     `json:"place,omitempty"`
	Organizer string     `json:"organizer,omitempty"`
	Accepted  int        `json:"accepted"`
	Waiting   int        `json:"waiting"`
	Limit     *int       `json:"limit,omitempty"`
	URL       string     `json:"url"`
}

// Validate checks the event invariants.
func (e *Event) Validate() error {
	if e.EventKey <= 0 {
		return fmt.Errorf("event key must be positive, got %d", e.EventKey)
	}
	if e.Accepted < 0 {
		return fmt.Errorf("accepted count must be non-negative, got %d", e.Accepted)
	}
	if e.Waiting < 0 {
		return fmt.Errorf("waiting count must be non-negative, got %d", e.Waiting)
	}
	if e.Limit != nil && *e.Limit < e.Accepted {
		return fmt.Errorf("limit %d cannot be below accepted count %d", *e.Limit, e.Accepted)
	}
	return nil
}

// IsPast reports whether the event has already ended relative to now.
// Events with no end timestamp are never considered past.
func (e *Event) IsPast(now time.Time) bool {
	return e.EndedAt != nil && e.EndedAt.Before(now)
}
