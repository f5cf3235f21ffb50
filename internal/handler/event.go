package handler

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/service"
)

// MaxImageBytes caps the size of an uploaded event image
const MaxImageBytes = 10 << 20

// EventHandler handles event endpoints
type EventHandler struct {
	eventService *service.EventService
	rsvpService  *service.RSVPService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *service.EventService, rsvpService *service.RSVPService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		rsvpService:  rsvpService,
	}
}

// ListEvents handles GET /v1/events - browse events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filters := &model.EventFilters{}
	q := r.URL.Query()
	if v := q.Get("category"); v != "" {
		filters.Category = &v
	}
	if v := q.Get("from"); v != "" {
		filters.DateFrom = &v
	}
	if v := q.Get("to"); v != "" {
		filters.DateTo = &v
	}

	events, err := h.eventService.ListEvents(r.Context(), filters)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, events, map[string]string{
		"self": "/v1/events",
	})
}

// CreateEvent handles POST /v1/events - create a new event.
// The body is multipart form data: event fields plus an optional image.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	form, image, problem := parseEventForm(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	req := &model.CreateEventRequest{
		Title:       form.value("title"),
		Description: form.ptr("description"),
		Category:    form.ptr("category"),
		Location:    form.ptr("location"),
		EventDate:   form.value("event_date"),
		TimeFrom:    form.ptr("time_from"),
		TimeTo:      form.ptr("time_to"),
	}

	event, err := h.eventService.CreateEvent(r.Context(), session, req, image)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, event, map[string]string{
		"self": "/v1/events/" + event.ID,
	})
}

// GetEvent handles GET /v1/events/{eventId} - event details with the
// caller's attendance state
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	session := middleware.GetSession(r.Context())

	event, err := h.eventService.GetEvent(r.Context(), eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	attendance, err := h.rsvpService.GetAttendanceState(r.Context(), eventID, session)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, model.EventWithAttendance{
		Event:      *event,
		Attendance: attendance,
	}, map[string]string{
		"self":    "/v1/events/" + eventID,
		"related": "/v1/events/" + eventID + "/related",
	})
}

// UpdateEvent handles PATCH /v1/events/{eventId} - partial update,
// owner only
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	form, image, problem := parseEventForm(r)
	if problem != nil {
		WriteError(w, problem)
		return
	}

	req := &model.UpdateEventRequest{
		Title:       form.ptr("title"),
		Description: form.ptr("description"),
		Category:    form.ptr("category"),
		Location:    form.ptr("location"),
		EventDate:   form.ptr("event_date"),
		TimeFrom:    form.ptr("time_from"),
		TimeTo:      form.ptr("time_to"),
	}

	event, err := h.eventService.UpdateEvent(r.Context(), session, eventID, req, image)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, event, map[string]string{
		"self": "/v1/events/" + eventID,
	})
}

// DeleteEvent handles DELETE /v1/events/{eventId} - owner only
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	if err := h.eventService.DeleteEvent(r.Context(), session, eventID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRelated handles GET /v1/events/{eventId}/related - upcoming
// events in the same category
func (h *EventHandler) ListRelated(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		WriteError(w, model.NewBadRequestError("event ID required"))
		return
	}

	events, err := h.eventService.ListRelated(r.Context(), eventID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, events, map[string]string{
		"self": "/v1/events/" + eventID + "/related",
	})
}

// ListMyEvents handles GET /v1/my/events - events the caller owns
func (h *EventHandler) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	events, err := h.eventService.ListOwnEvents(r.Context(), session)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, events, map[string]string{
		"self": "/v1/my/events",
	})
}

// eventForm gives pointer-or-absent access to submitted form fields
type eventForm struct {
	values map[string][]string
}

func (f eventForm) value(key string) string {
	if vs, ok := f.values[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// ptr returns the field value when the client submitted the field at
// all, distinguishing "unchanged" from "set to empty"
func (f eventForm) ptr(key string) *string {
	if vs, ok := f.values[key]; ok && len(vs) > 0 {
		v := vs[0]
		return &v
	}
	return nil
}

// parseEventForm reads a multipart event submission: text fields plus
// an optional image part
func parseEventForm(r *http.Request) (eventForm, *service.ImageUpload, *model.ProblemDetails) {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(ct, "multipart/") {
		return eventForm{}, nil, model.NewBadRequestError("expected multipart form data")
	}

	if err := r.ParseMultipartForm(MaxImageBytes); err != nil {
		return eventForm{}, nil, model.NewBadRequestError("invalid form data")
	}

	form := eventForm{values: r.MultipartForm.Value}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return form, nil, nil
	}
	if err != nil {
		return eventForm{}, nil, model.NewBadRequestError("invalid image upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		return eventForm{}, nil, model.NewBadRequestError("could not read image upload")
	}
	if len(data) > MaxImageBytes {
		return eventForm{}, nil, model.NewBadRequestError("image exceeds maximum size")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return form, &service.ImageUpload{
		Filename:    header.Filename,
		Data:        data,
		ContentType: contentType,
	}, nil
}
