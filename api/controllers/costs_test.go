package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantops/canopy-backend/internal/batches"
	"github.com/verdantops/canopy-backend/internal/costs"
	"github.com/verdantops/canopy-backend/pkg/db/models"
)

type testCostsService struct {
	createFn func(ctx context.Context, input costs.CreateEntryInput) (*models.CostEntry, error)
	listFn   func(ctx context.Context, filter costs.ListFilter) ([]models.CostEntry, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
	growFn   func(ctx context.Context, params costs.GrowParams) (costs.GrowCost, error)
}

func (s *testCostsService) CreateEntry(ctx context.Context, input costs.CreateEntryInput) (*models.CostEntry, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func (s *testCostsService) ListEntries(ctx context.Context, filter costs.ListFilter) ([]models.CostEntry, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return []models.CostEntry{}, nil
}

func (s *testCostsService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *testCostsService) CostToGrow(ctx context.Context, params costs.GrowParams) (costs.GrowCost, error) {
	if s.growFn != nil {
		return s.growFn(ctx, params)
	}
	return costs.GrowCost{}, nil
}

func TestBatchCostToGrowUsesRoomLights(t *testing.T) {
	roomID := uuid.New()
	batchID := uuid.New()
	view := batches.NewBatchView(models.Batch{
		ID:        batchID,
		RoomID:    &roomID,
		Room:      &models.Room{ID: roomID, Name: "Flower Room 4", LightCapacity: 100},
		Code:      "R4-2026-02",
		StartDate: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		Assignments: []models.BatchStrainAssignment{
			{StrainID: uuid.New(), LightsAssigned: 10, Percentage: decimal.RequireFromString("100")},
		},
	})

	batchSvc := &testBatchesService{
		getFn: func(_ context.Context, id uuid.UUID) (*batches.BatchView, error) {
			if id != batchID {
				t.Fatalf("unexpected batch id %s", id)
			}
			return &view, nil
		},
	}

	var captured costs.GrowParams
	costSvc := &testCostsService{
		growFn: func(_ context.Context, params costs.GrowParams) (costs.GrowCost, error) {
			captured = params
			return costs.GrowCost{Total: decimal.RequireFromString("594")}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batchID.String()+"/cost-to-grow", nil)
	req = withURLParam(req, "batchId", batchID.String())
	rec := httptest.NewRecorder()
	BatchCostToGrow(batchSvc, costSvc, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Lights != 100 {
		t.Fatalf("expected 100 room lights in cost lookup, got %d", captured.Lights)
	}
	if captured.BatchID != batchID || captured.RoomID == nil || *captured.RoomID != roomID {
		t.Fatalf("unexpected grow params: %+v", captured)
	}
}

func TestBatchCostToGrowNoRoom(t *testing.T) {
	batchID := uuid.New()
	view := batches.NewBatchView(models.Batch{
		ID:        batchID,
		Code:      "R1-2026-05",
		StartDate: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
	})

	batchSvc := &testBatchesService{
		getFn: func(_ context.Context, _ uuid.UUID) (*batches.BatchView, error) {
			return &view, nil
		},
	}

	var captured costs.GrowParams
	costSvc := &testCostsService{
		growFn: func(_ context.Context, params costs.GrowParams) (costs.GrowCost, error) {
			captured = params
			return costs.GrowCost{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batchID.String()+"/cost-to-grow", nil)
	req = withURLParam(req, "batchId", batchID.String())
	rec := httptest.NewRecorder()
	BatchCostToGrow(batchSvc, costSvc, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Lights != 0 {
		t.Fatalf("expected 0 lights without a room, got %d", captured.Lights)
	}
}
