package batches

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	pkgredis "github.com/verdantops/canopy-backend/pkg/redis"
)

type fakeRepository struct {
	Repository
	batches     map[uuid.UUID]*models.Batch
	listRows    []models.Batch
	codeCount   int64
	lastStatus  enums.BatchStatus
	deletedID   uuid.UUID
	statusErr   error
	lastPattern string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{batches: map[uuid.UUID]*models.Batch{}}
}

func (f *fakeRepository) WithTx(_ *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(_ context.Context, batch *models.Batch) (*models.Batch, error) {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	f.batches[batch.ID] = batch
	return batch, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Batch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return batch, nil
}

func (f *fakeRepository) List(_ context.Context, _ listQuery) ([]models.Batch, error) {
	return f.listRows, nil
}

func (f *fakeRepository) UpdateStatus(_ context.Context, id uuid.UUID, status enums.BatchStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	batch, ok := f.batches[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	batch.Status = status
	f.lastStatus = status
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.batches[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.batches, id)
	f.deletedID = id
	return nil
}

func (f *fakeRepository) CountCodesLike(_ context.Context, _ *uuid.UUID, pattern string) (int64, error) {
	f.lastPattern = pattern
	return f.codeCount, nil
}

type fakeRoomSource struct {
	room *models.Room
}

func (f *fakeRoomSource) FindByID(_ context.Context, id uuid.UUID) (*models.Room, error) {
	if f.room == nil || f.room.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.room, nil
}

type fakeTxRunner struct{ calls int }

func (f *fakeTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	return fn(nil)
}

type fakeCache struct {
	payload     string
	hit         bool
	sets        int
	invalidated []string
}

func (f *fakeCache) GetCache(_ context.Context, _ string) (string, bool, error) {
	return f.payload, f.hit, nil
}

func (f *fakeCache) SetCache(_ context.Context, _ string, payload string, _ time.Duration) error {
	f.sets++
	f.payload = payload
	return nil
}

func (f *fakeCache) InvalidateCache(_ context.Context, entities ...string) error {
	f.invalidated = append(f.invalidated, entities...)
	return nil
}

func newTestService(t *testing.T, repo *fakeRepository, rooms *fakeRoomSource, cache *fakeCache) Service {
	t.Helper()
	// Avoid handing NewService a typed-nil interface value when no cache is wanted.
	var entityCache pkgredis.EntityCache
	if cache != nil {
		entityCache = cache
	}
	svc, err := NewService(repo, rooms, &fakeTxRunner{}, entityCache, time.Minute, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestService_CreateBatchGeneratesCode(t *testing.T) {
	room := &models.Room{ID: uuid.New(), Name: "Veg Room 4", LightCapacity: 100}
	repo := newFakeRepository()
	repo.codeCount = 1
	cache := &fakeCache{}
	svc := newTestService(t, repo, &fakeRoomSource{room: room}, cache)

	strainID := uuid.New()
	view, err := svc.CreateBatch(context.Background(), CreateBatchInput{
		RoomID:    &room.ID,
		StartDate: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		Status:    enums.BatchStatusActive,
		Assignments: []ProposedAssignment{
			{StrainID: strainID, LightsAssigned: 50, Percentage: decimal.RequireFromString("100")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Code != "R4-2026-02" {
		t.Fatalf("expected generated code R4-2026-02, got %s", view.Code)
	}
	if view.PrimaryStrainID == nil || *view.PrimaryStrainID != strainID {
		t.Fatal("expected first assignment strain as primary")
	}
	wantFlip := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	if !view.FlipDate.Equal(wantFlip) {
		t.Fatalf("expected flip date %s, got %s", wantFlip, view.FlipDate)
	}
	if len(cache.invalidated) == 0 {
		t.Fatal("expected listing cache invalidation")
	}
}

func TestService_CreateBatchKeepsExplicitCode(t *testing.T) {
	room := &models.Room{ID: uuid.New(), Name: "Room 1", LightCapacity: 10}
	repo := newFakeRepository()
	svc := newTestService(t, repo, &fakeRoomSource{room: room}, nil)

	view, err := svc.CreateBatch(context.Background(), CreateBatchInput{
		RoomID:    &room.ID,
		Code:      "  CUSTOM-7 ",
		StartDate: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		Assignments: []ProposedAssignment{
			{StrainID: uuid.New(), LightsAssigned: 5, Percentage: decimal.RequireFromString("100")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Code != "CUSTOM-7" {
		t.Fatalf("expected trimmed explicit code, got %q", view.Code)
	}
	if view.Status != enums.BatchStatusPlanned {
		t.Fatalf("expected default planned status, got %s", view.Status)
	}
}

func TestService_CreateBatchEnforcesRoomCapacity(t *testing.T) {
	room := &models.Room{ID: uuid.New(), Name: "Room 1", LightCapacity: 10}
	svc := newTestService(t, newFakeRepository(), &fakeRoomSource{room: room}, nil)

	_, err := svc.CreateBatch(context.Background(), CreateBatchInput{
		RoomID:    &room.ID,
		StartDate: time.Now(),
		Assignments: []ProposedAssignment{
			{StrainID: uuid.New(), LightsAssigned: 11, Percentage: decimal.RequireFromString("100")},
		},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_CreateBatchUnknownRoom(t *testing.T) {
	svc := newTestService(t, newFakeRepository(), &fakeRoomSource{}, nil)

	roomID := uuid.New()
	_, err := svc.CreateBatch(context.Background(), CreateBatchInput{
		RoomID:    &roomID,
		StartDate: time.Now(),
		Assignments: []ProposedAssignment{
			{StrainID: uuid.New(), LightsAssigned: 1, Percentage: decimal.RequireFromString("100")},
		},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_CreateBatchRejectsHarvestedStatus(t *testing.T) {
	svc := newTestService(t, newFakeRepository(), &fakeRoomSource{}, nil)

	_, err := svc.CreateBatch(context.Background(), CreateBatchInput{
		StartDate: time.Now(),
		Status:    enums.BatchStatusHarvested,
		Assignments: []ProposedAssignment{
			{StrainID: uuid.New(), LightsAssigned: 1, Percentage: decimal.RequireFromString("100")},
		},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestService_TransitionStatusBlocksHarvested(t *testing.T) {
	repo := newFakeRepository()
	batch := &models.Batch{ID: uuid.New(), Status: enums.BatchStatusActive}
	repo.batches[batch.ID] = batch
	svc := newTestService(t, repo, &fakeRoomSource{}, nil)

	_, err := svc.TransitionStatus(context.Background(), batch.ID, enums.BatchStatusHarvested)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if batch.Status != enums.BatchStatusActive {
		t.Fatal("status must not change")
	}
}

func TestService_TransitionStatusUpdates(t *testing.T) {
	repo := newFakeRepository()
	batch := &models.Batch{ID: uuid.New(), Status: enums.BatchStatusPlanned, StartDate: time.Now()}
	repo.batches[batch.ID] = batch
	cache := &fakeCache{}
	svc := newTestService(t, repo, &fakeRoomSource{}, cache)

	view, err := svc.TransitionStatus(context.Background(), batch.ID, enums.BatchStatusArchived)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Status != enums.BatchStatusArchived {
		t.Fatalf("expected archived, got %s", view.Status)
	}
	if len(cache.invalidated) == 0 {
		t.Fatal("expected listing cache invalidation")
	}
}

func TestService_ListBatchesCachesDefaultPage(t *testing.T) {
	repo := newFakeRepository()
	repo.listRows = []models.Batch{
		{ID: uuid.New(), Code: "R1-2026-01", StartDate: time.Now(), Status: enums.BatchStatusActive},
	}
	cache := &fakeCache{}
	svc := newTestService(t, repo, &fakeRoomSource{}, cache)

	result, err := svc.ListBatches(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(result.Items))
	}
	if cache.sets != 1 {
		t.Fatalf("expected cached listing write, got %d", cache.sets)
	}

	// Second call is served from the cache.
	cache.hit = true
	repo.listRows = nil
	again, err := svc.ListBatches(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again.Items) != 1 {
		t.Fatalf("expected cached batch, got %d items", len(again.Items))
	}
}

func TestService_DeleteBatchNotFound(t *testing.T) {
	svc := newTestService(t, newFakeRepository(), &fakeRoomSource{}, nil)

	err := svc.DeleteBatch(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
