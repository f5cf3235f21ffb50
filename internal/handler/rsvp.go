package handler

import (
	"errors"
	"net/http"

	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/service"
)

// RSVPHandler handles RSVP endpoints
type RSVPHandler struct {
	rsvpService *service.RSVPService
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(rsvpService *service.RSVPService) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService}
}

// Rsvp handles POST /v1/events/{eventId}/rsvp - RSVP to an event.
// The response body always carries the authoritative attendance state
// re-read from the ledger after the mutation.
func (h *RSVPHandler) Rsvp(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	session := middleware.GetSession(r.Context())

	state, err := h.rsvpService.RequestRsvp(r.Context(), eventID, session)
	if err != nil {
		writeRsvpError(w, state, err)
		return
	}

	WriteData(w, http.StatusCreated, state, map[string]string{
		"event": "/v1/events/" + eventID,
	})
}

// CancelRsvp handles DELETE /v1/events/{eventId}/rsvp - withdraw an RSVP
func (h *RSVPHandler) CancelRsvp(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	session := middleware.GetSession(r.Context())

	state, err := h.rsvpService.CancelRsvp(r.Context(), eventID, session)
	if err != nil {
		writeRsvpError(w, state, err)
		return
	}

	WriteData(w, http.StatusOK, state, map[string]string{
		"event": "/v1/events/" + eventID,
	})
}

// writeRsvpError writes the mapped problem response. On the recoverable
// branches the service already re-read the ledger, so the problem body
// carries that reconciled state and clients converge without a second
// round trip.
func writeRsvpError(w http.ResponseWriter, state model.AttendanceState, err error) {
	problem := MapServiceError(err)
	if errors.Is(err, service.ErrDuplicateRSVP) || errors.Is(err, service.ErrRSVPNotFound) {
		problem.Attendance = &state
	}
	WriteError(w, problem)
}

// GetAttendance handles GET /v1/events/{eventId}/attendance - the
// caller's status plus the attending count
func (h *RSVPHandler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	session := middleware.GetSession(r.Context())

	state, err := h.rsvpService.GetAttendanceState(r.Context(), eventID, session)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, state, map[string]string{
		"event": "/v1/events/" + eventID,
	})
}
