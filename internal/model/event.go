package model

import (
	"regexp"
	"time"
)

// Event represents a published gathering users can discover and RSVP to
type Event struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Location    *string   `json:"location,omitempty"`
	EventDate   string    `json:"event_date"` // YYYY-MM-DD
	TimeFrom    *string   `json:"time_from,omitempty"` // HH:MM
	TimeTo      *string   `json:"time_to,omitempty"`   // HH:MM
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
}

// Categories is the fixed set of event categories
var Categories = []string{
	"Conference",
	"Workshop",
	"Seminar",
	"Networking",
	"Social",
	"Sports",
	"Concert",
	"Festival",
	"Fundraiser",
	"Other",
}

// ValidCategory reports whether c is one of the fixed categories
func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Constraints
const (
	MaxEventTitleLength       = 200
	MaxEventDescriptionLength = 5000
	MaxEventLocationLength    = 300
)

var (
	dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeFormat = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	EventDate   string  `json:"event_date"`
	TimeFrom    *string `json:"time_from,omitempty"`
	TimeTo      *string `json:"time_to,omitempty"`
}

// Validate checks the request before any remote call is made
func (r *CreateEventRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Title == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title is required"})
	} else if len(r.Title) > MaxEventTitleLength {
		errors = append(errors, FieldError{Field: "title", Message: "title too long"})
	}

	if r.Description != nil && len(*r.Description) > MaxEventDescriptionLength {
		errors = append(errors, FieldError{Field: "description", Message: "description too long"})
	}

	if r.Category != nil && !ValidCategory(*r.Category) {
		errors = append(errors, FieldError{Field: "category", Message: "unknown category"})
	}

	if r.Location != nil && len(*r.Location) > MaxEventLocationLength {
		errors = append(errors, FieldError{Field: "location", Message: "location too long"})
	}

	if r.EventDate == "" {
		errors = append(errors, FieldError{Field: "event_date", Message: "event_date is required"})
	} else if !ValidDate(r.EventDate) {
		errors = append(errors, FieldError{Field: "event_date", Message: "event_date must be YYYY-MM-DD"})
	}

	errors = append(errors, validateTimeRange(r.TimeFrom, r.TimeTo)...)

	return errors
}

// UpdateEventRequest represents a request to update an event.
// Nil fields are left unchanged; time_from/time_to travel as a pair.
type UpdateEventRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	EventDate   *string `json:"event_date,omitempty"`
	TimeFrom    *string `json:"time_from,omitempty"`
	TimeTo      *string `json:"time_to,omitempty"`
}

// Validate checks the request before any remote call is made
func (r *UpdateEventRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Title != nil {
		if *r.Title == "" {
			errors = append(errors, FieldError{Field: "title", Message: "title cannot be empty"})
		} else if len(*r.Title) > MaxEventTitleLength {
			errors = append(errors, FieldError{Field: "title", Message: "title too long"})
		}
	}

	if r.Description != nil && len(*r.Description) > MaxEventDescriptionLength {
		errors = append(errors, FieldError{Field: "description", Message: "description too long"})
	}

	if r.Category != nil && !ValidCategory(*r.Category) {
		errors = append(errors, FieldError{Field: "category", Message: "unknown category"})
	}

	if r.Location != nil && len(*r.Location) > MaxEventLocationLength {
		errors = append(errors, FieldError{Field: "location", Message: "location too long"})
	}

	if r.EventDate != nil && !ValidDate(*r.EventDate) {
		errors = append(errors, FieldError{Field: "event_date", Message: "event_date must be YYYY-MM-DD"})
	}

	errors = append(errors, validateTimeRange(r.TimeFrom, r.TimeTo)...)

	return errors
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form
func ValidDate(s string) bool {
	if !dateFormat.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidTime reports whether s is a clock time in HH:MM form
func ValidTime(s string) bool {
	return timeFormat.MatchString(s)
}

// validateTimeRange enforces the both-or-neither rule for event times
func validateTimeRange(from, to *string) []FieldError {
	var errors []FieldError

	if (from == nil) != (to == nil) {
		errors = append(errors, FieldError{Field: "time_from", Message: "time_from and time_to must be provided together"})
		return errors
	}
	if from == nil {
		return errors
	}

	if !ValidTime(*from) {
		errors = append(errors, FieldError{Field: "time_from", Message: "time_from must be HH:MM"})
	}
	if !ValidTime(*to) {
		errors = append(errors, FieldError{Field: "time_to", Message: "time_to must be HH:MM"})
	}
	if len(errors) == 0 && *to <= *from {
		errors = append(errors, FieldError{Field: "time_to", Message: "time_to must be after time_from"})
	}

	return errors
}

// EventFilters narrows an event listing
type EventFilters struct {
	Category *string `json:"category,omitempty"`
	DateFrom *string `json:"date_from,omitempty"` // YYYY-MM-DD, inclusive
	DateTo   *string `json:"date_to,omitempty"`   // YYYY-MM-DD, inclusive
}

// Validate checks filter values; empty filters are valid
func (f *EventFilters) Validate() []FieldError {
	var errors []FieldError

	if f.Category != nil && !ValidCategory(*f.Category) {
		errors = append(errors, FieldError{Field: "category", Message: "unknown category"})
	}
	if f.DateFrom != nil && !ValidDate(*f.DateFrom) {
		errors = append(errors, FieldError{Field: "from", Message: "from must be YYYY-MM-DD"})
	}
	if f.DateTo != nil && !ValidDate(*f.DateTo) {
		errors = append(errors, FieldError{Field: "to", Message: "to must be YYYY-MM-DD"})
	}

	return errors
}

// EventWithAttendance pairs an event with the attendance state the
// requesting caller sees
type EventWithAttendance struct {
	Event      Event           `json:"event"`
	Attendance AttendanceState `json:"attendance"`
}
