package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
)

// RSVPRepository handles RSVP data access. The rsvp table carries a
// unique index over (event_id, user_id); the database enforces one row
// per user per event regardless of how many concurrent inserts race.
type RSVPRepository struct {
	db database.Database
}

// NewRSVPRepository creates a new RSVP repository
func NewRSVPRepository(db database.Database) *RSVPRepository {
	return &RSVPRepository{db: db}
}

// Create inserts an attending RSVP for the (event, user) pair. A second
// insert for the same pair returns database.ErrDuplicate.
func (r *RSVPRepository) Create(ctx context.Context, eventID, userID string) (*model.RSVP, error) {
	query := `
		CREATE rsvp CONTENT {
			event_id: $event_id,
			user_id: $user_id,
			status: $status,
			created_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
		"status":   model.RSVPStatusAttending,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("%w: rsvp for %s by %s", database.ErrDuplicate, eventID, userID)
		}
		return nil, err
	}

	data, err := extractFirstRecord(result)
	if err != nil {
		return nil, err
	}

	return r.parseRSVPResult(data)
}

// GetByEventAndUser retrieves the user's RSVP for an event. Returns nil
// when no row exists.
func (r *RSVPRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.RSVP, error) {
	query := `
		SELECT * FROM rsvp
		WHERE event_id = $event_id
		AND user_id = $user_id
		LIMIT 1
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
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

	return r.parseRSVPResult(data)
}

// DeleteByEventAndUser removes the user's RSVP row for an event and
// reports whether a row existed
func (r *RSVPRepository) DeleteByEventAndUser(ctx context.Context, eventID, userID string) (bool, error) {
	query := `
		DELETE rsvp
		WHERE event_id = $event_id
		AND user_id = $user_id
		RETURN BEFORE
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	_, ok := result.(map[string]interface{})
	return ok, nil
}

// DeleteByEvent removes every RSVP row for an event. Used when the event
// itself is deleted.
func (r *RSVPRepository) DeleteByEvent(ctx context.Context, eventID string) error {
	query := `DELETE rsvp WHERE event_id = $event_id`
	vars := map[string]interface{}{"event_id": eventID}

	return r.db.Execute(ctx, query, vars)
}

// CountAttending counts rows with status attending for an event. Rows
// with any other status never contribute to the count.
func (r *RSVPRepository) CountAttending(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT count() as count FROM rsvp
		WHERE event_id = $event_id
		AND status = $status
		GROUP ALL
	`
	vars := map[string]interface{}{
		"event_id": eventID,
		"status":   model.RSVPStatusAttending,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count"), nil
	}
	return 0, nil
}

// Helper functions

func (r *RSVPRepository) parseRSVPResult(data map[string]interface{}) (*model.RSVP, error) {
	if data == nil {
		return nil, errors.New("unexpected result format")
	}

	rsvp := &model.RSVP{
		ID:      convertSurrealID(data["id"]),
		EventID: convertSurrealID(data["event_id"]),
		UserID:  getString(data, "user_id"),
		Status:  getString(data, "status"),
	}

	if t := getTime(data, "created_on"); t != nil {
		rsvp.CreatedOn = *t
	}

	return rsvp, nil
}
