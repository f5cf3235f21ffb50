package model

import (
	"strings"
	"testing"
)

func ptr(s string) *string { return &s }

// ============================================================================
// CreateEventRequest Tests
// ============================================================================

func TestCreateEventRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:     "Go Meetup",
		Category:  ptr("Networking"),
		Location:  ptr("Community Hall"),
		EventDate: "2026-09-12",
		TimeFrom:  ptr("18:00"),
		TimeTo:    ptr("20:30"),
	}

	errors := req.Validate()
	if len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_MissingTitle(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		EventDate: "2026-09-12",
	}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "title" {
		t.Errorf("expected title error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_MissingEventDate(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title: "Go Meetup",
	}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "event_date" {
		t.Errorf("expected event_date error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_BadDateFormat(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:     "Go Meetup",
		EventDate: "12/09/2026",
	}

	errors := req.Validate()
	hasError := false
	for _, e := range errors {
		if e.Field == "event_date" && strings.Contains(e.Message, "YYYY-MM-DD") {
			hasError = true
		}
	}
	if !hasError {
		t.Errorf("expected event_date format error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_ImpossibleDate(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:     "Go Meetup",
		EventDate: "2026-02-30",
	}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "event_date" {
		t.Errorf("expected event_date error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_UnknownCategory(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:     "Go Meetup",
		Category:  ptr("Rave"),
		EventDate: "2026-09-12",
	}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "category" {
		t.Errorf("expected category error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_TimeFromWithoutTimeTo(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:     "Go Meetup",
		EventDate: "2026-09-12",
		TimeFrom:  ptr("18:00"),
	}

	errors := req.Validate()
	hasError := false
	for _, e := range errors {
		if e.Field == "time_from" && strings.Contains(e.Message, "together") {
			hasError = true
		}
	}
	if !hasError {
		t.Errorf("expected paired-times error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_TimeToBeforeTimeFrom(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:     "Go Meetup",
		EventDate: "2026-09-12",
		TimeFrom:  ptr("20:00"),
		TimeTo:    ptr("18:00"),
	}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "time_to" {
		t.Errorf("expected time_to ordering error, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_BadTimeFormat(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:     "Go Meetup",
		EventDate: "2026-09-12",
		TimeFrom:  ptr("6pm"),
		TimeTo:    ptr("25:00"),
	}

	errors := req.Validate()
	if len(errors) != 2 {
		t.Errorf("expected two time format errors, got %v", errors)
	}
}

func TestCreateEventRequest_Validate_TitleTooLong(t *testing.T) {
	t.Parallel()

	req := &CreateEventRequest{
		Title:     strings.Repeat("x", MaxEventTitleLength+1),
		EventDate: "2026-09-12",
	}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "title" {
		t.Errorf("expected title length error, got %v", errors)
	}
}

// ============================================================================
// UpdateEventRequest Tests
// ============================================================================

func TestUpdateEventRequest_Validate_Empty(t *testing.T) {
	t.Parallel()

	req := &UpdateEventRequest{}

	errors := req.Validate()
	if len(errors) > 0 {
		t.Errorf("expected no errors for empty update, got %v", errors)
	}
}

func TestUpdateEventRequest_Validate_EmptyTitle(t *testing.T) {
	t.Parallel()

	req := &UpdateEventRequest{Title: ptr("")}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "title" {
		t.Errorf("expected title error, got %v", errors)
	}
}

func TestUpdateEventRequest_Validate_BadDate(t *testing.T) {
	t.Parallel()

	req := &UpdateEventRequest{EventDate: ptr("next friday")}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "event_date" {
		t.Errorf("expected event_date error, got %v", errors)
	}
}

func TestUpdateEventRequest_Validate_UnpairedTimes(t *testing.T) {
	t.Parallel()

	req := &UpdateEventRequest{TimeTo: ptr("20:00")}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "time_from" {
		t.Errorf("expected paired-times error, got %v", errors)
	}
}

// ============================================================================
// EventFilters Tests
// ============================================================================

func TestEventFilters_Validate_Empty(t *testing.T) {
	t.Parallel()

	f := &EventFilters{}
	if errors := f.Validate(); len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestEventFilters_Validate_BadRange(t *testing.T) {
	t.Parallel()

	f := &EventFilters{
		Category: ptr("Cooking"),
		DateFrom: ptr("soon"),
	}

	errors := f.Validate()
	if len(errors) != 2 {
		t.Errorf("expected category and from errors, got %v", errors)
	}
}

// ============================================================================
// AttendanceState Tests
// ============================================================================

func TestAttendanceState_Attending(t *testing.T) {
	t.Parallel()

	none := AttendanceState{Status: nil, Count: 3}
	if none.Attending() {
		t.Error("expected not attending for nil status")
	}

	attending := AttendanceState{Status: ptr(RSVPStatusAttending), Count: 4}
	if !attending.Attending() {
		t.Error("expected attending")
	}

	declined := AttendanceState{Status: ptr(RSVPStatusNotAttending), Count: 4}
	if declined.Attending() {
		t.Error("expected not attending for not_attending status")
	}
}
