// Package service implements the application workflows over the
// repository, storage, and mailer boundaries.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/mailer"
	"github.com/gatherly/api/internal/model"
)

// EventRepository is the event data access the services depend on
type EventRepository interface {
	Create(ctx context.Context, ownerID string, req *model.CreateEventRequest, imageURL *string) (*model.Event, error)
	Get(ctx context.Context, eventID string) (*model.Event, error)
	List(ctx context.Context, filters *model.EventFilters) ([]*model.Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Event, error)
	ListRelated(ctx context.Context, eventID, category, fromDate string, limit int) ([]*model.Event, error)
	UpdateScoped(ctx context.Context, eventID, ownerID string, updates map[string]interface{}) (*model.Event, error)
	DeleteScoped(ctx context.Context, eventID, ownerID string) (*model.Event, error)
}

// RSVPLedger is the RSVP data access the services depend on. The ledger
// is the single source of truth for attendance; every mutation is
// followed by a read from it.
type RSVPLedger interface {
	Create(ctx context.Context, eventID, userID string) (*model.RSVP, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.RSVP, error)
	DeleteByEventAndUser(ctx context.Context, eventID, userID string) (bool, error)
	DeleteByEvent(ctx context.Context, eventID string) error
	CountAttending(ctx context.Context, eventID string) (int, error)
}

// ConfirmationMailer sends the RSVP confirmation email
type ConfirmationMailer interface {
	SendRSVPConfirmation(ctx context.Context, msg mailer.RSVPConfirmation) error
}

// RSVPService coordinates the RSVP workflow
type RSVPService struct {
	events  EventRepository
	rsvps   RSVPLedger
	mailer  ConfirmationMailer
	effects *EffectLog

	// emailTimeout bounds the detached confirmation send
	emailTimeout time.Duration
}

// NewRSVPService creates a new RSVP service. mailer may be nil, in which
// case no confirmation emails are sent.
func NewRSVPService(events EventRepository, rsvps RSVPLedger, m ConfirmationMailer, effects *EffectLog) *RSVPService {
	return &RSVPService{
		events:       events,
		rsvps:        rsvps,
		mailer:       m,
		effects:      effects,
		emailTimeout: 15 * time.Second,
	}
}

// RequestRsvp records an attending RSVP for the session's user. Whatever
// the mutation's outcome, the authoritative attendance state is re-read
// from the ledger before returning; callers render that state, never a
// local guess.
func (s *RSVPService) RequestRsvp(ctx context.Context, eventID string, session model.Session) (model.AttendanceState, error) {
	if !session.Authenticated() {
		return model.AttendanceState{}, ErrUnauthenticated
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return model.AttendanceState{}, fmt.Errorf("loading event: %w", err)
	}
	if event == nil {
		return model.AttendanceState{}, ErrEventNotFound
	}

	_, createErr := s.rsvps.Create(ctx, eventID, session.UserID)

	// Reconciliation read happens on success and failure alike.
	state, stateErr := s.GetAttendanceState(ctx, eventID, session)

	if createErr != nil {
		if errors.Is(createErr, database.ErrDuplicate) {
			return state, ErrDuplicateRSVP
		}
		return state, fmt.Errorf("recording rsvp: %w", createErr)
	}
	if stateErr != nil {
		return model.AttendanceState{}, fmt.Errorf("reading attendance: %w", stateErr)
	}

	if s.mailer != nil && session.Email != "" {
		go s.sendConfirmation(event, session)
	}

	return state, nil
}

// CancelRsvp removes the session user's RSVP row entirely. Cancelling
// when no RSVP exists returns ErrRSVPNotFound; either way the returned
// state is a fresh ledger read.
func (s *RSVPService) CancelRsvp(ctx context.Context, eventID string, session model.Session) (model.AttendanceState, error) {
	if !session.Authenticated() {
		return model.AttendanceState{}, ErrUnauthenticated
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return model.AttendanceState{}, fmt.Errorf("loading event: %w", err)
	}
	if event == nil {
		return model.AttendanceState{}, ErrEventNotFound
	}

	deleted, deleteErr := s.rsvps.DeleteByEventAndUser(ctx, eventID, session.UserID)

	state, stateErr := s.GetAttendanceState(ctx, eventID, session)

	if deleteErr != nil {
		return state, fmt.Errorf("cancelling rsvp: %w", deleteErr)
	}
	if stateErr != nil {
		return model.AttendanceState{}, fmt.Errorf("reading attendance: %w", stateErr)
	}
	if !deleted {
		return state, ErrRSVPNotFound
	}

	return state, nil
}

// GetAttendanceState reads the caller's status and the attending count
// from the ledger. An anonymous session sees a nil status.
func (s *RSVPService) GetAttendanceState(ctx context.Context, eventID string, session model.Session) (model.AttendanceState, error) {
	count, err := s.rsvps.CountAttending(ctx, eventID)
	if err != nil {
		return model.AttendanceState{}, fmt.Errorf("counting attendance: %w", err)
	}

	state := model.AttendanceState{Count: count}

	if session.Authenticated() {
		rsvp, err := s.rsvps.GetByEventAndUser(ctx, eventID, session.UserID)
		if err != nil {
			return model.AttendanceState{}, fmt.Errorf("loading rsvp: %w", err)
		}
		if rsvp != nil {
			status := rsvp.Status
			state.Status = &status
		}
	}

	return state, nil
}

// Reconcile resolves a locally-held attendance hint against a fresh
// ledger read. The authoritative state always wins; the local hint only
// ever bridges the gap until the read lands.
func Reconcile(local, authoritative model.AttendanceState) model.AttendanceState {
	_ = local
	return authoritative
}

// sendConfirmation runs detached from the request that triggered it.
// The outcome goes to the effect log and nowhere else.
func (s *RSVPService) sendConfirmation(event *model.Event, session model.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), s.emailTimeout)
	defer cancel()

	msg := mailer.RSVPConfirmation{
		RecipientEmail: session.Email,
		RecipientName:  session.Name,
		EventTitle:     event.Title,
		EventDate:      formatEventDate(event.EventDate),
		EventTime:      formatEventTime(event.TimeFrom, event.TimeTo),
	}
	if event.Location != nil {
		msg.EventLocation = *event.Location
	}

	err := s.mailer.SendRSVPConfirmation(ctx, msg)
	s.effects.Record("rsvp_confirmation_email", err,
		"event_id", event.ID,
		"recipient", session.Email,
	)
}

// formatEventDate renders YYYY-MM-DD for display, falling back to the
// raw value if it does not parse
func formatEventDate(eventDate string) string {
	t, err := time.Parse("2006-01-02", eventDate)
	if err != nil {
		return eventDate
	}
	return t.Format("Monday, January 2, 2006")
}

func formatEventTime(from, to *string) string {
	if from == nil || to == nil {
		return ""
	}
	return *from + " - " + *to
}
