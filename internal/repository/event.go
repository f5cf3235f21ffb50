// Package repository provides SurrealDB-backed data access for events
// and RSVPs.
package repository

import (
	"context"
	"errors"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
)

// EventRepository handles event data access
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event owned by ownerID and returns the stored record
func (r *EventRepository) Create(ctx context.Context, ownerID string, req *model.CreateEventRequest, imageURL *string) (*model.Event, error) {
	query := `
		CREATE event CONTENT {
			owner_id: $owner_id,
			title: $title,
			description: $description,
			category: $category,
			location: $location,
			event_date: $event_date,
			time_from: $time_from,
			time_to: $time_to,
			image_url: $image_url,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"owner_id":    ownerID,
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"location":    req.Location,
		"event_date":  req.EventDate,
		"time_from":   req.TimeFrom,
		"time_to":     req.TimeTo,
		"image_url":   imageURL,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	data, err := extractFirstRecord(result)
	if err != nil {
		return nil, err
	}

	return r.parseEventResult(data)
}

// Get retrieves an event by ID. Returns nil when the event does not
// exist, including for ids that are not record-shaped at all.
func (r *EventRepository) Get(ctx context.Context, eventID string) (*model.Event, error) {
	if !validRecordID(eventID) {
		return nil, nil
	}

	query := `SELECT * FROM type::record($event_id)`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok || len(data) == 0 {
		return nil, nil
	}

	return r.parseEventResult(data)
}

// List retrieves events matching the filters, ordered soonest first
func (r *EventRepository) List(ctx context.Context, filters *model.EventFilters) ([]*model.Event, error) {
	query := `SELECT * FROM event`
	vars := map[string]interface{}{}
	clause := " WHERE"

	if filters != nil && filters.Category != nil {
		query += clause + ` category = $category`
		vars["category"] = *filters.Category
		clause = " AND"
	}
	if filters != nil && filters.DateFrom != nil {
		query += clause + ` event_date >= $date_from`
		vars["date_from"] = *filters.DateFrom
		clause = " AND"
	}
	if filters != nil && filters.DateTo != nil {
		query += clause + ` event_date <= $date_to`
		vars["date_to"] = *filters.DateTo
	}

	query += ` ORDER BY event_date ASC`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseEventsResult(result)
}

// ListByOwner retrieves every event a user owns, ordered soonest first
func (r *EventRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE owner_id = $owner_id
		ORDER BY event_date ASC
	`
	vars := map[string]interface{}{"owner_id": ownerID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseEventsResult(result)
}

// ListRelated retrieves up to limit upcoming events sharing a category,
// excluding the event itself
func (r *EventRepository) ListRelated(ctx context.Context, eventID, category, fromDate string, limit int) ([]*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE category = $category
		AND id != type::record($event_id)
		AND event_date >= $from_date
		ORDER BY event_date ASC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"event_id":  eventID,
		"category":  category,
		"from_date": fromDate,
		"limit":     limit,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return r.parseEventsResult(result)
}

// UpdateScoped updates an event only when ownerID owns it. The ownership
// check lives in the WHERE clause so a non-owner's update touches zero
// rows. Returns nil when no row matched.
func (r *EventRepository) UpdateScoped(ctx context.Context, eventID, ownerID string, updates map[string]interface{}) (*model.Event, error) {
	if !validRecordID(eventID) {
		return nil, nil
	}
	if len(updates) == 0 {
		return r.getScoped(ctx, eventID, ownerID)
	}

	query := `UPDATE event SET`
	vars := map[string]interface{}{
		"event_id": eventID,
		"owner_id": ownerID,
	}

	sep := " "
	for key, value := range updates {
		query += sep + key + " = $" + key
		vars[key] = value
		sep = ", "
	}

	query += ` WHERE id = type::record($event_id) AND owner_id = $owner_id RETURN AFTER`

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, nil
	}

	return r.parseEventResult(data)
}

// DeleteScoped deletes an event only when ownerID owns it and returns the
// deleted record, so the caller can clean up its image asset. Returns nil
// when no row matched.
func (r *EventRepository) DeleteScoped(ctx context.Context, eventID, ownerID string) (*model.Event, error) {
	if !validRecordID(eventID) {
		return nil, nil
	}

	query := `
		DELETE event
		WHERE id = type::record($event_id) AND owner_id = $owner_id
		RETURN BEFORE
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"owner_id": ownerID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, nil
	}

	return r.parseEventResult(data)
}

func (r *EventRepository) getScoped(ctx context.Context, eventID, ownerID string) (*model.Event, error) {
	query := `
		SELECT * FROM event
		WHERE id = type::record($event_id) AND owner_id = $owner_id
		LIMIT 1
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"owner_id": ownerID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, nil
	}

	return r.parseEventResult(data)
}

// Helper functions

func (r *EventRepository) parseEventResult(data map[string]interface{}) (*model.Event, error) {
	if data == nil {
		return nil, errors.New("unexpected result format")
	}

	event := &model.Event{
		ID:          convertSurrealID(data["id"]),
		OwnerID:     getString(data, "owner_id"),
		Title:       getString(data, "title"),
		Description: getStringPtr(data, "description"),
		Category:    getStringPtr(data, "category"),
		Location:    getStringPtr(data, "location"),
		EventDate:   getString(data, "event_date"),
		TimeFrom:    getStringPtr(data, "time_from"),
		TimeTo:      getStringPtr(data, "time_to"),
		ImageURL:    getStringPtr(data, "image_url"),
	}

	if t := getTime(data, "created_on"); t != nil {
		event.CreatedOn = *t
	}

	return event, nil
}

func (r *EventRepository) parseEventsResult(result []interface{}) ([]*model.Event, error) {
	events := make([]*model.Event, 0)

	for _, row := range extractQueryResults(result) {
		data, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		event, err := r.parseEventResult(data)
		if err != nil {
			continue
		}
		events = append(events, event)
	}

	return events, nil
}
