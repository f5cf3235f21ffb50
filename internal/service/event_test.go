package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
)

func validCreateRequest() *model.CreateEventRequest {
	return &model.CreateEventRequest{
		Title:     "Go Meetup",
		Category:  strPtr("Networking"),
		EventDate: "2026-09-12",
	}
}

// ============================================================================
// CreateEvent Tests
// ============================================================================

func TestCreateEvent_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc := NewEventService(&mockEventRepo{}, &mockRSVPLedger{}, &mockAssetStore{}, testEffects())

	_, err := svc.CreateEvent(context.Background(), model.Session{}, validCreateRequest(), nil)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCreateEvent_ValidationBeforeAnyRemoteCall(t *testing.T) {
	t.Parallel()

	uploadCalled := false
	createCalled := false
	assets := &mockAssetStore{
		uploadFunc: func(ctx context.Context, objectPath string, data []byte, contentType string) error {
			uploadCalled = true
			return nil
		},
	}
	repo := &mockEventRepo{
		createFunc: func(ctx context.Context, ownerID string, req *model.CreateEventRequest, imageURL *string) (*model.Event, error) {
			createCalled = true
			return nil, nil
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, assets, testEffects())

	req := &model.CreateEventRequest{Title: ""} // missing title and date
	_, err := svc.CreateEvent(context.Background(), session("user:a"), req, &ImageUpload{Filename: "x.png"})

	var problem *model.ProblemDetails
	if !errors.As(err, &problem) || problem.Status != 422 {
		t.Errorf("expected validation problem, got %v", err)
	}
	if uploadCalled || createCalled {
		t.Error("validation must fail before any remote call")
	}
}

func TestCreateEvent_UploadsImageBeforeInsert(t *testing.T) {
	t.Parallel()

	var order []string
	var uploadedPath string
	assets := &mockAssetStore{
		uploadFunc: func(ctx context.Context, objectPath string, data []byte, contentType string) error {
			order = append(order, "upload")
			uploadedPath = objectPath
			return nil
		},
	}
	repo := &mockEventRepo{
		createFunc: func(ctx context.Context, ownerID string, req *model.CreateEventRequest, imageURL *string) (*model.Event, error) {
			order = append(order, "insert")
			if imageURL == nil {
				t.Error("insert must carry the uploaded image URL")
			}
			return &model.Event{ID: "event:new", ImageURL: imageURL}, nil
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, assets, testEffects())

	event, err := svc.CreateEvent(context.Background(), session("user:a"), validCreateRequest(),
		&ImageUpload{Filename: "banner.png", Data: []byte("img"), ContentType: "image/png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "upload" || order[1] != "insert" {
		t.Errorf("expected upload before insert, got %v", order)
	}
	if event.ImageURL == nil || *event.ImageURL != "https://store.test/public/"+uploadedPath {
		t.Errorf("unexpected image URL: %v", event.ImageURL)
	}
}

func TestCreateEvent_InsertFailureCompensatesUpload(t *testing.T) {
	t.Parallel()

	var uploadedPath, removedPath string
	assets := &mockAssetStore{
		uploadFunc: func(ctx context.Context, objectPath string, data []byte, contentType string) error {
			uploadedPath = objectPath
			return nil
		},
		removeFunc: func(ctx context.Context, objectPath string) error {
			removedPath = objectPath
			return nil
		},
	}
	repo := &mockEventRepo{
		createFunc: func(ctx context.Context, ownerID string, req *model.CreateEventRequest, imageURL *string) (*model.Event, error) {
			return nil, database.ErrQuery
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, assets, testEffects())

	_, err := svc.CreateEvent(context.Background(), session("user:a"), validCreateRequest(),
		&ImageUpload{Filename: "banner.png"})
	if err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if removedPath == "" || removedPath != uploadedPath {
		t.Errorf("expected compensating delete of %q, removed %q", uploadedPath, removedPath)
	}
}

// ============================================================================
// UpdateEvent Tests
// ============================================================================

func TestUpdateEvent_NonOwnerTouchesNothing(t *testing.T) {
	t.Parallel()

	repo := &mockEventRepo{
		getFunc: func(ctx context.Context, eventID string) (*model.Event, error) {
			return &model.Event{ID: eventID, OwnerID: "user:owner"}, nil
		},
		updateScopedFunc: func(ctx context.Context, eventID, ownerID string, updates map[string]interface{}) (*model.Event, error) {
			return nil, nil // zero rows matched
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, &mockAssetStore{}, testEffects())

	_, err := svc.UpdateEvent(context.Background(), session("user:intruder"), "event:1",
		&model.UpdateEventRequest{Title: strPtr("Hijacked")}, nil)
	if !errors.Is(err, ErrNotEventOwner) {
		t.Errorf("expected ErrNotEventOwner, got %v", err)
	}
}

func TestUpdateEvent_MissingEvent(t *testing.T) {
	t.Parallel()

	svc := NewEventService(&mockEventRepo{}, &mockRSVPLedger{}, &mockAssetStore{}, testEffects())

	_, err := svc.UpdateEvent(context.Background(), session("user:a"), "event:missing",
		&model.UpdateEventRequest{Title: strPtr("New")}, nil)
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestUpdateEvent_ReplacesImage(t *testing.T) {
	t.Parallel()

	oldURL := "https://store.test/public/old-1.png"
	var order []string
	var removed []string

	assets := &mockAssetStore{
		uploadFunc: func(ctx context.Context, objectPath string, data []byte, contentType string) error {
			order = append(order, "upload")
			return nil
		},
		removeFunc: func(ctx context.Context, objectPath string) error {
			order = append(order, "remove")
			removed = append(removed, objectPath)
			return nil
		},
	}
	repo := &mockEventRepo{
		getFunc: func(ctx context.Context, eventID string) (*model.Event, error) {
			return &model.Event{ID: eventID, OwnerID: "user:a", ImageURL: &oldURL}, nil
		},
		updateScopedFunc: func(ctx context.Context, eventID, ownerID string, updates map[string]interface{}) (*model.Event, error) {
			order = append(order, "update")
			if _, ok := updates["image_url"]; !ok {
				t.Error("update must carry the new image URL")
			}
			return &model.Event{ID: eventID, OwnerID: ownerID}, nil
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, assets, testEffects())

	_, err := svc.UpdateEvent(context.Background(), session("user:a"), "event:1",
		&model.UpdateEventRequest{}, &ImageUpload{Filename: "new.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"upload", "update", "remove"}
	if len(order) != 3 || order[0] != want[0] || order[1] != want[1] || order[2] != want[2] {
		t.Errorf("expected %v, got %v", want, order)
	}
	if len(removed) != 1 || removed[0] != "old-1.png" {
		t.Errorf("expected old asset removed, got %v", removed)
	}
}

func TestUpdateEvent_ScopedMissRemovesFreshAssetOnly(t *testing.T) {
	t.Parallel()

	oldURL := "https://store.test/public/old-1.png"
	var uploadedPath string
	var removed []string

	assets := &mockAssetStore{
		uploadFunc: func(ctx context.Context, objectPath string, data []byte, contentType string) error {
			uploadedPath = objectPath
			return nil
		},
		removeFunc: func(ctx context.Context, objectPath string) error {
			removed = append(removed, objectPath)
			return nil
		},
	}
	repo := &mockEventRepo{
		getFunc: func(ctx context.Context, eventID string) (*model.Event, error) {
			return &model.Event{ID: eventID, OwnerID: "user:owner", ImageURL: &oldURL}, nil
		},
		updateScopedFunc: func(ctx context.Context, eventID, ownerID string, updates map[string]interface{}) (*model.Event, error) {
			return nil, nil
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, assets, testEffects())

	_, err := svc.UpdateEvent(context.Background(), session("user:intruder"), "event:1",
		&model.UpdateEventRequest{}, &ImageUpload{Filename: "new.png"})
	if !errors.Is(err, ErrNotEventOwner) {
		t.Fatalf("expected ErrNotEventOwner, got %v", err)
	}
	if len(removed) != 1 || removed[0] != uploadedPath {
		t.Errorf("only the fresh asset may be reclaimed, removed %v", removed)
	}
}

// ============================================================================
// DeleteEvent Tests
// ============================================================================

func TestDeleteEvent_OwnerCleansUpAssetAndLedger(t *testing.T) {
	t.Parallel()

	imageURL := "https://store.test/public/banner-9.png"
	var removedAsset string
	var clearedEvent string

	assets := &mockAssetStore{
		removeFunc: func(ctx context.Context, objectPath string) error {
			removedAsset = objectPath
			return nil
		},
	}
	repo := &mockEventRepo{
		deleteScopedFunc: func(ctx context.Context, eventID, ownerID string) (*model.Event, error) {
			return &model.Event{ID: eventID, OwnerID: ownerID, ImageURL: &imageURL}, nil
		},
	}
	ledger := &mockRSVPLedger{
		deleteByEventFunc: func(ctx context.Context, eventID string) error {
			clearedEvent = eventID
			return nil
		},
	}
	svc := NewEventService(repo, ledger, assets, testEffects())

	if err := svc.DeleteEvent(context.Background(), session("user:a"), "event:1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removedAsset != "banner-9.png" {
		t.Errorf("expected asset cleanup, removed %q", removedAsset)
	}
	if clearedEvent != "event:1" {
		t.Errorf("expected RSVP cleanup for event:1, got %q", clearedEvent)
	}
}

func TestDeleteEvent_NonOwnerRemovesNoAsset(t *testing.T) {
	t.Parallel()

	removeCalled := false
	assets := &mockAssetStore{
		removeFunc: func(ctx context.Context, objectPath string) error {
			removeCalled = true
			return nil
		},
	}
	repo := &mockEventRepo{
		getFunc: func(ctx context.Context, eventID string) (*model.Event, error) {
			url := "https://store.test/public/banner-9.png"
			return &model.Event{ID: eventID, OwnerID: "user:owner", ImageURL: &url}, nil
		},
		deleteScopedFunc: func(ctx context.Context, eventID, ownerID string) (*model.Event, error) {
			return nil, nil // zero rows matched
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, assets, testEffects())

	err := svc.DeleteEvent(context.Background(), session("user:intruder"), "event:1")
	if !errors.Is(err, ErrNotEventOwner) {
		t.Errorf("expected ErrNotEventOwner, got %v", err)
	}
	if removeCalled {
		t.Error("a non-owner's delete must not touch the asset")
	}
}

func TestDeleteEvent_Missing(t *testing.T) {
	t.Parallel()

	svc := NewEventService(&mockEventRepo{}, &mockRSVPLedger{}, &mockAssetStore{}, testEffects())

	err := svc.DeleteEvent(context.Background(), session("user:a"), "event:missing")
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestDeleteEvent_AssetFailureDoesNotSurface(t *testing.T) {
	t.Parallel()

	imageURL := "https://store.test/public/banner-9.png"
	assets := &mockAssetStore{
		removeFunc: func(ctx context.Context, objectPath string) error {
			return errors.New("storage down")
		},
	}
	repo := &mockEventRepo{
		deleteScopedFunc: func(ctx context.Context, eventID, ownerID string) (*model.Event, error) {
			return &model.Event{ID: eventID, ImageURL: &imageURL}, nil
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, assets, testEffects())

	if err := svc.DeleteEvent(context.Background(), session("user:a"), "event:1"); err != nil {
		t.Errorf("asset cleanup failure must not surface: %v", err)
	}
}

// ============================================================================
// Read Tests
// ============================================================================

func TestListEvents_InvalidFilters(t *testing.T) {
	t.Parallel()

	svc := NewEventService(&mockEventRepo{}, &mockRSVPLedger{}, &mockAssetStore{}, testEffects())

	_, err := svc.ListEvents(context.Background(), &model.EventFilters{Category: strPtr("Cooking")})
	var problem *model.ProblemDetails
	if !errors.As(err, &problem) || problem.Status != 422 {
		t.Errorf("expected validation problem, got %v", err)
	}
}

func TestListRelated_PassesCategoryAndDate(t *testing.T) {
	t.Parallel()

	repo := &mockEventRepo{
		getFunc: func(ctx context.Context, eventID string) (*model.Event, error) {
			return &model.Event{ID: eventID, Category: strPtr("Sports"), EventDate: "2026-09-12"}, nil
		},
		listRelatedFunc: func(ctx context.Context, eventID, category, fromDate string, limit int) ([]*model.Event, error) {
			if category != "Sports" || fromDate != "2026-09-12" || limit != RelatedEventsLimit {
				t.Errorf("unexpected args: %s %s %d", category, fromDate, limit)
			}
			return []*model.Event{{ID: "event:2"}}, nil
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, &mockAssetStore{}, testEffects())

	related, err := svc.ListRelated(context.Background(), "event:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(related) != 1 {
		t.Errorf("expected one related event, got %d", len(related))
	}
}

func TestListRelated_UncategorizedHasNone(t *testing.T) {
	t.Parallel()

	repo := &mockEventRepo{
		getFunc: func(ctx context.Context, eventID string) (*model.Event, error) {
			return &model.Event{ID: eventID, EventDate: "2026-09-12"}, nil
		},
	}
	svc := NewEventService(repo, &mockRSVPLedger{}, &mockAssetStore{}, testEffects())

	related, err := svc.ListRelated(context.Background(), "event:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(related) != 0 {
		t.Errorf("expected no related events, got %d", len(related))
	}
}

func TestListOwnEvents_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc := NewEventService(&mockEventRepo{}, &mockRSVPLedger{}, &mockAssetStore{}, testEffects())

	_, err := svc.ListOwnEvents(context.Background(), model.Session{})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}
