package model

import "time"

// RSVP represents one user's standing response to one event.
// The ledger holds at most one row per (event, user); cancelling
// removes the row entirely rather than flipping its status.
type RSVP struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedOn time.Time `json:"created_on"`
}

// RSVP status constants
const (
	RSVPStatusAttending    = "attending"
	RSVPStatusNotAttending = "not_attending"
)

// AttendanceState is the caller-visible view of an event's attendance:
// the caller's own status (nil when they have no RSVP) plus the count
// of attending users. The count never reflects anything but rows with
// status attending.
type AttendanceState struct {
	Status *string `json:"status"`
	Count  int     `json:"count"`
}

// Attending reports whether the state carries an attending RSVP
func (s AttendanceState) Attending() bool {
	return s.Status != nil && *s.Status == RSVPStatusAttending
}
