package batches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	"github.com/verdantops/canopy-backend/pkg/logger"
	"github.com/verdantops/canopy-backend/pkg/pagination"
	pkgredis "github.com/verdantops/canopy-backend/pkg/redis"
)

const listCacheEntity = "batches"

type service struct {
	repo     Repository
	rooms    RoomSource
	tx       TxRunner
	cache    pkgredis.EntityCache
	cacheTTL time.Duration
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a batch service. The cache is optional; when nil the
// listing always hits the database.
func NewService(repo Repository, rooms RoomSource, tx TxRunner, cache pkgredis.EntityCache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("batches repository required")
	}
	if rooms == nil {
		return nil, fmt.Errorf("rooms source required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		rooms:    rooms,
		tx:       tx,
		cache:    cache,
		cacheTTL: cacheTTL,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) CreateBatch(ctx context.Context, input CreateBatchInput) (*BatchView, error) {
	if input.StartDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start date required")
	}
	if input.Status == "" {
		input.Status = enums.BatchStatusPlanned
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid batch status")
	}
	if input.Status == enums.BatchStatusHarvested {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a batch cannot be created already harvested")
	}

	var room *models.Room
	if input.RoomID != nil {
		found, err := s.rooms.FindByID(ctx, *input.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room")
		}
		room = found
	}

	var capacity *int
	if room != nil {
		capacity = &room.LightCapacity
	}
	if err := ValidateAllocation(input.Assignments, capacity); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = GenerateBatchCode(ctx, s.repo, s.logg, room, s.now())
	}

	primaryStrainID := input.Assignments[0].StrainID
	batch := &models.Batch{
		RoomID:              input.RoomID,
		PrimaryStrainID:     &primaryStrainID,
		Code:                code,
		StartDate:           input.StartDate,
		ExpectedHarvestDate: input.ExpectedHarvestDate,
		Status:              input.Status,
	}
	for _, a := range input.Assignments {
		batch.Assignments = append(batch.Assignments, models.BatchStrainAssignment{
			StrainID:       a.StrainID,
			LightsAssigned: a.LightsAssigned,
			Percentage:     a.Percentage,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, batch)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create batch")
	}

	s.invalidateListing(ctx)

	return s.GetBatch(ctx, batch.ID)
}

func (s *service) GetBatch(ctx context.Context, id uuid.UUID) (*BatchView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch id required")
	}

	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load batch")
	}

	view := NewBatchView(*batch)
	return &view, nil
}

func (s *service) ListBatches(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid batch status filter")
	}

	cacheable := params.Cursor == "" && params.Status == nil && params.Limit == 0
	if cacheable {
		if cached := s.readCachedListing(ctx); cached != nil {
			return cached, nil
		}
	}

	limit := pagination.NormalizeLimit(params.Limit)
	query := listQuery{
		limit:  pagination.LimitWithBuffer(params.Limit),
		status: params.Status,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list batches")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	items := make([]BatchView, len(rows))
	for i, row := range rows {
		items[i] = NewBatchView(row)
	}

	result := &ListResult{Items: items, Cursor: nextCursor}
	if cacheable {
		s.writeCachedListing(ctx, result)
	}
	return result, nil
}

func (s *service) TransitionStatus(ctx context.Context, id uuid.UUID, target enums.BatchStatus) (*BatchView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch id required")
	}
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid batch status")
	}
	if target == enums.BatchStatusHarvested {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "record a harvest to mark a batch harvested")
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update batch status")
	}

	s.invalidateListing(ctx)

	return s.GetBatch(ctx, id)
}

func (s *service) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "batch id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete batch")
	}

	s.invalidateListing(ctx)
	return nil
}

func (s *service) readCachedListing(ctx context.Context) *ListResult {
	if s.cache == nil {
		return nil
	}
	payload, hit, err := s.cache.GetCache(ctx, listCacheEntity)
	if err != nil || !hit {
		return nil
	}
	var result ListResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil
	}
	return &result
}

func (s *service) writeCachedListing(ctx context.Context, result *ListResult) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.SetCache(ctx, listCacheEntity, string(payload), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("batch listing cache write failed: %v", err))
	}
}

func (s *service) invalidateListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx, listCacheEntity); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("batch listing cache invalidation failed: %v", err))
	}
}
