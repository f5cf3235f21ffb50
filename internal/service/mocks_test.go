package service

import (
	"context"
	"log/slog"

	"github.com/gatherly/api/internal/mailer"
	"github.com/gatherly/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockEventRepo struct {
	createFunc       func(ctx context.Context, ownerID string, req *model.CreateEventRequest, imageURL *string) (*model.Event, error)
	getFunc          func(ctx context.Context, eventID string) (*model.Event, error)
	listFunc         func(ctx context.Context, filters *model.EventFilters) ([]*model.Event, error)
	listByOwnerFunc  func(ctx context.Context, ownerID string) ([]*model.Event, error)
	listRelatedFunc  func(ctx context.Context, eventID, category, fromDate string, limit int) ([]*model.Event, error)
	updateScopedFunc func(ctx context.Context, eventID, ownerID string, updates map[string]interface{}) (*model.Event, error)
	deleteScopedFunc func(ctx context.Context, eventID, ownerID string) (*model.Event, error)
}

func (m *mockEventRepo) Create(ctx context.Context, ownerID string, req *model.CreateEventRequest, imageURL *string) (*model.Event, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, ownerID, req, imageURL)
	}
	return &model.Event{ID: "event:new", OwnerID: ownerID, Title: req.Title, EventDate: req.EventDate, ImageURL: imageURL}, nil
}

func (m *mockEventRepo) Get(ctx context.Context, eventID string) (*model.Event, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *mockEventRepo) List(ctx context.Context, filters *model.EventFilters) ([]*model.Event, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filters)
	}
	return nil, nil
}

func (m *mockEventRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Event, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockEventRepo) ListRelated(ctx context.Context, eventID, category, fromDate string, limit int) ([]*model.Event, error) {
	if m.listRelatedFunc != nil {
		return m.listRelatedFunc(ctx, eventID, category, fromDate, limit)
	}
	return nil, nil
}

func (m *mockEventRepo) UpdateScoped(ctx context.Context, eventID, ownerID string, updates map[string]interface{}) (*model.Event, error) {
	if m.updateScopedFunc != nil {
		return m.updateScopedFunc(ctx, eventID, ownerID, updates)
	}
	return nil, nil
}

func (m *mockEventRepo) DeleteScoped(ctx context.Context, eventID, ownerID string) (*model.Event, error) {
	if m.deleteScopedFunc != nil {
		return m.deleteScopedFunc(ctx, eventID, ownerID)
	}
	return nil, nil
}

type mockRSVPLedger struct {
	createFunc               func(ctx context.Context, eventID, userID string) (*model.RSVP, error)
	getByEventAndUserFunc    func(ctx context.Context, eventID, userID string) (*model.RSVP, error)
	deleteByEventAndUserFunc func(ctx context.Context, eventID, userID string) (bool, error)
	deleteByEventFunc        func(ctx context.Context, eventID string) error
	countAttendingFunc       func(ctx context.Context, eventID string) (int, error)
}

func (m *mockRSVPLedger) Create(ctx context.Context, eventID, userID string) (*model.RSVP, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, eventID, userID)
	}
	return &model.RSVP{ID: "rsvp:new", EventID: eventID, UserID: userID, Status: model.RSVPStatusAttending}, nil
}

func (m *mockRSVPLedger) GetByEventAndUser(ctx context.Context, eventID, userID string) (*model.RSVP, error) {
	if m.getByEventAndUserFunc != nil {
		return m.getByEventAndUserFunc(ctx, eventID, userID)
	}
	return nil, nil
}

func (m *mockRSVPLedger) DeleteByEventAndUser(ctx context.Context, eventID, userID string) (bool, error) {
	if m.deleteByEventAndUserFunc != nil {
		return m.deleteByEventAndUserFunc(ctx, eventID, userID)
	}
	return false, nil
}

func (m *mockRSVPLedger) DeleteByEvent(ctx context.Context, eventID string) error {
	if m.deleteByEventFunc != nil {
		return m.deleteByEventFunc(ctx, eventID)
	}
	return nil
}

func (m *mockRSVPLedger) CountAttending(ctx context.Context, eventID string) (int, error) {
	if m.countAttendingFunc != nil {
		return m.countAttendingFunc(ctx, eventID)
	}
	return 0, nil
}

type mockAssetStore struct {
	uploadFunc            func(ctx context.Context, objectPath string, data []byte, contentType string) error
	removeFunc            func(ctx context.Context, objectPath string) error
	publicURLFunc         func(objectPath string) string
	objectPathFromURLFunc func(publicURL string) string
}

func (m *mockAssetStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, objectPath, data, contentType)
	}
	return nil
}

func (m *mockAssetStore) Remove(ctx context.Context, objectPath string) error {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, objectPath)
	}
	return nil
}

func (m *mockAssetStore) PublicURL(objectPath string) string {
	if m.publicURLFunc != nil {
		return m.publicURLFunc(objectPath)
	}
	return "https://store.test/public/" + objectPath
}

func (m *mockAssetStore) ObjectPathFromURL(publicURL string) string {
	if m.objectPathFromURLFunc != nil {
		return m.objectPathFromURLFunc(publicURL)
	}
	const prefix = "https://store.test/public/"
	if len(publicURL) > len(prefix) && publicURL[:len(prefix)] == prefix {
		return publicURL[len(prefix):]
	}
	return ""
}

type mockMailer struct {
	sendFunc func(ctx context.Context, msg mailer.RSVPConfirmation) error
}

func (m *mockMailer) SendRSVPConfirmation(ctx context.Context, msg mailer.RSVPConfirmation) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

func testEffects() *EffectLog {
	return NewEffectLog(slog.New(slog.DiscardHandler))
}

func strPtr(s string) *string { return &s }
