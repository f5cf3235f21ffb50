package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Session Errors =====
var (
	ErrUnauthenticated = errors.New("authentication required")
)

// ===== Event Errors =====
var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotEventOwner = errors.New("not the event owner")
)

// ===== RSVP Errors =====
var (
	ErrRSVPNotFound  = errors.New("RSVP not found")
	ErrDuplicateRSVP = errors.New("already RSVP'd to this event")
)
