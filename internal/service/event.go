package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/storage"
)

// RelatedEventsLimit caps how many related events a lookup returns
const RelatedEventsLimit = 3

// AssetStore is the object storage the event lifecycle depends on
type AssetStore interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) error
	Remove(ctx context.Context, objectPath string) error
	PublicURL(objectPath string) string
	ObjectPathFromURL(publicURL string) string
}

// ImageUpload carries an image file received with a create or update
type ImageUpload struct {
	Filename    string
	Data        []byte
	ContentType string
}

// EventService coordinates the event lifecycle
type EventService struct {
	events  EventRepository
	rsvps   RSVPLedger
	assets  AssetStore
	effects *EffectLog
}

// NewEventService creates a new event service
func NewEventService(events EventRepository, rsvps RSVPLedger, assets AssetStore, effects *EffectLog) *EventService {
	return &EventService{
		events:  events,
		rsvps:   rsvps,
		assets:  assets,
		effects: effects,
	}
}

// CreateEvent validates the request, uploads the optional image under a
// fresh name, and inserts the record. Validation failures happen before
// any remote call. If the insert fails after a successful upload, a
// compensating best-effort delete reclaims the asset.
func (s *EventService) CreateEvent(ctx context.Context, session model.Session, req *model.CreateEventRequest, image *ImageUpload) (*model.Event, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		return nil, model.NewValidationError(fieldErrors)
	}

	var imageURL *string
	var objectPath string
	if image != nil {
		objectPath = storage.ObjectName(image.Filename, time.Now())
		if err := s.assets.Upload(ctx, objectPath, image.Data, image.ContentType); err != nil {
			return nil, fmt.Errorf("uploading image: %w", err)
		}
		url := s.assets.PublicURL(objectPath)
		imageURL = &url
	}

	event, err := s.events.Create(ctx, session.UserID, req, imageURL)
	if err != nil {
		if objectPath != "" {
			s.effects.Record("orphaned_asset_cleanup", s.assets.Remove(ctx, objectPath),
				"object", objectPath,
			)
		}
		return nil, fmt.Errorf("creating event: %w", err)
	}

	return event, nil
}

// UpdateEvent applies a partial update scoped by (id, owner): ownership
// lives in the statement's WHERE clause, so a non-owner's update touches
// zero rows. A replacement image is uploaded before the record changes;
// the old asset is removed best-effort only after the update lands.
func (s *EventService) UpdateEvent(ctx context.Context, session model.Session, eventID string, req *model.UpdateEventRequest, newImage *ImageUpload) (*model.Event, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		return nil, model.NewValidationError(fieldErrors)
	}

	var oldImageURL *string
	updates := buildEventUpdates(req)

	var objectPath string
	if newImage != nil {
		current, err := s.events.Get(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("loading event: %w", err)
		}
		if current == nil {
			return nil, ErrEventNotFound
		}
		oldImageURL = current.ImageURL

		objectPath = storage.ObjectName(newImage.Filename, time.Now())
		if err := s.assets.Upload(ctx, objectPath, newImage.Data, newImage.ContentType); err != nil {
			return nil, fmt.Errorf("uploading image: %w", err)
		}
		url := s.assets.PublicURL(objectPath)
		updates["image_url"] = url
	}

	updated, err := s.events.UpdateScoped(ctx, eventID, session.UserID, updates)
	if err != nil {
		if objectPath != "" {
			s.effects.Record("orphaned_asset_cleanup", s.assets.Remove(ctx, objectPath),
				"object", objectPath,
			)
		}
		return nil, fmt.Errorf("updating event: %w", err)
	}
	if updated == nil {
		// Zero rows matched: either the event is gone or the caller
		// does not own it. The fresh asset belongs to neither case.
		if objectPath != "" {
			s.effects.Record("orphaned_asset_cleanup", s.assets.Remove(ctx, objectPath),
				"object", objectPath,
			)
		}
		return nil, s.classifyScopedMiss(ctx, eventID)
	}

	if oldImageURL != nil && objectPath != "" {
		if old := s.assets.ObjectPathFromURL(*oldImageURL); old != "" {
			s.effects.Record("replaced_asset_cleanup", s.assets.Remove(ctx, old),
				"object", old,
			)
		}
	}

	return updated, nil
}

// DeleteEvent removes an event, its RSVP rows, and its image asset.
// The delete is scoped by (id, owner); a non-owner affects zero rows
// and no asset is touched. Asset and RSVP cleanup are best-effort.
func (s *EventService) DeleteEvent(ctx context.Context, session model.Session, eventID string) error {
	if !session.Authenticated() {
		return ErrUnauthenticated
	}

	deleted, err := s.events.DeleteScoped(ctx, eventID, session.UserID)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	if deleted == nil {
		return s.classifyScopedMiss(ctx, eventID)
	}

	s.effects.Record("event_rsvp_cleanup", s.rsvps.DeleteByEvent(ctx, eventID),
		"event_id", eventID,
	)

	if deleted.ImageURL != nil {
		if obj := s.assets.ObjectPathFromURL(*deleted.ImageURL); obj != "" {
			s.effects.Record("deleted_event_asset_cleanup", s.assets.Remove(ctx, obj),
				"object", obj,
			)
		}
	}

	return nil
}

// GetEvent retrieves a single event
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("loading event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents retrieves events matching the filters, soonest first
func (s *EventService) ListEvents(ctx context.Context, filters *model.EventFilters) ([]*model.Event, error) {
	if filters != nil {
		if fieldErrors := filters.Validate(); len(fieldErrors) > 0 {
			return nil, model.NewValidationError(fieldErrors)
		}
	}

	events, err := s.events.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// ListOwnEvents retrieves every event the session's user owns
func (s *EventService) ListOwnEvents(ctx context.Context, session model.Session) ([]*model.Event, error) {
	if !session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	events, err := s.events.ListByOwner(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing own events: %w", err)
	}
	return events, nil
}

// ListRelated retrieves up to three upcoming events in the same category.
// An uncategorized event has no related events.
func (s *EventService) ListRelated(ctx context.Context, eventID string) ([]*model.Event, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("loading event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.Category == nil {
		return []*model.Event{}, nil
	}

	related, err := s.events.ListRelated(ctx, eventID, *event.Category, event.EventDate, RelatedEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing related events: %w", err)
	}
	return related, nil
}

// classifyScopedMiss distinguishes a missing event from one the caller
// does not own, after a scoped write matched zero rows
func (s *EventService) classifyScopedMiss(ctx context.Context, eventID string) error {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return fmt.Errorf("loading event: %w", err)
	}
	if event == nil {
		return ErrEventNotFound
	}
	return ErrNotEventOwner
}

// buildEventUpdates translates non-nil request fields into a SET map
func buildEventUpdates(req *model.UpdateEventRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.EventDate != nil {
		updates["event_date"] = *req.EventDate
	}
	if req.TimeFrom != nil {
		updates["time_from"] = *req.TimeFrom
	}
	if req.TimeTo != nil {
		updates["time_to"] = *req.TimeTo
	}
	return updates
}
