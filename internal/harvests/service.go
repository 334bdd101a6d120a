package harvests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/internal/costs"
	"github.com/verdantops/canopy-backend/pkg/db/models"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	"github.com/verdantops/canopy-backend/pkg/logger"
	pkgredis "github.com/verdantops/canopy-backend/pkg/redis"
)

const batchListCacheEntity = "batches"

// BatchSource loads the batch a harvest belongs to. Satisfied by the batches
// repository.
type BatchSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Batch, error)
}

// GrowCoster supplies the cost-to-grow figure folded into the economics.
// Satisfied by the costs service.
type GrowCoster interface {
	CostToGrow(ctx context.Context, params costs.GrowParams) (costs.GrowCost, error)
}

// TxRunner executes a function inside a database transaction. Satisfied by
// db.Client.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RecordHarvestInput holds a validated harvest save request.
type RecordHarvestInput struct {
	HarvestDate time.Time
	Strains     []StrainHarvest
}

// HarvestView is a persisted summary with its detail rows.
type HarvestView struct {
	models.HarvestSummary
}

// Service records and reads harvest outcomes.
type Service interface {
	RecordHarvest(ctx context.Context, batchID uuid.UUID, input RecordHarvestInput) (*HarvestView, error)
	GetHarvest(ctx context.Context, batchID uuid.UUID) (*HarvestView, error)
}

type service struct {
	repo    Repository
	batches BatchSource
	coster  GrowCoster
	tx      TxRunner
	cache   pkgredis.EntityCache
	logg    *logger.Logger
}

// NewService builds a harvest service. The cache is optional and only used to
// drop stale batch listings after a save.
func NewService(repo Repository, batches BatchSource, coster GrowCoster, tx TxRunner, cache pkgredis.EntityCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("harvests repository required")
	}
	if batches == nil {
		return nil, fmt.Errorf("batch source required")
	}
	if coster == nil {
		return nil, fmt.Errorf("grow coster required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		batches: batches,
		coster:  coster,
		tx:      tx,
		cache:   cache,
		logg:    logg,
	}, nil
}

// RecordHarvest replaces any prior harvest rows for the batch, persists the new
// summary and details, and flips the batch to harvested. The whole sequence
// runs in one transaction; on failure the prior rows and batch status survive.
func (s *service) RecordHarvest(ctx context.Context, batchID uuid.UUID, input RecordHarvestInput) (*HarvestView, error) {
	if batchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch id required")
	}
	if input.HarvestDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "harvest date required")
	}
	if len(input.Strains) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one strain harvest is required")
	}
	for _, sh := range input.Strains {
		if sh.StrainID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "strain harvest missing strain id")
		}
		if sh.BigsLbs.IsNegative() || sh.SmallsLbs.IsNegative() || sh.MicrosLbs.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "harvested weights cannot be negative")
		}
		if sh.BigsPrice.IsNegative() || sh.SmallsPrice.IsNegative() || sh.MicrosPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale prices cannot be negative")
		}
	}

	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load batch")
	}

	// The electricity estimate runs on the room's full light count; the
	// per-light yield figures below stay on the batch's assigned lights.
	roomLights := 0
	if batch.Room != nil {
		roomLights = batch.Room.LightCapacity
	}
	grow, err := s.coster.CostToGrow(ctx, costs.GrowParams{
		BatchID:   batch.ID,
		RoomID:    batch.RoomID,
		StartDate: batch.StartDate,
		Lights:    roomLights,
	})
	if err != nil {
		return nil, err
	}

	econ := ComputeEconomics(input.Strains, batch.TotalLights(), grow.Total)

	summary := &models.HarvestSummary{
		BatchID:           batch.ID,
		HarvestDate:       input.HarvestDate,
		TotalWeightLbs:    econ.TotalWeightLbs,
		TotalLights:       econ.TotalLights,
		YieldPerLight:     econ.YieldPerLight,
		TotalRevenue:      econ.TotalRevenue,
		RevenuePerLight:   econ.RevenuePerLight,
		CostToGrow:        econ.CostToGrow,
		ProfitLoss:        econ.ProfitLoss,
		CostPerLb:         econ.CostPerLb,
		NetIncomePerLb:    econ.NetIncomePerLb,
		NetIncomeSalesPct: econ.NetIncomeSalesPct,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteByBatch(ctx, batch.ID); err != nil {
			return err
		}
		if _, err := repo.CreateSummary(ctx, summary); err != nil {
			return err
		}
		details := make([]models.HarvestDetail, len(input.Strains))
		for i, sh := range input.Strains {
			details[i] = models.HarvestDetail{
				SummaryID:   summary.ID,
				StrainID:    sh.StrainID,
				BigsLbs:     sh.BigsLbs,
				SmallsLbs:   sh.SmallsLbs,
				MicrosLbs:   sh.MicrosLbs,
				BigsPrice:   sh.BigsPrice,
				SmallsPrice: sh.SmallsPrice,
				MicrosPrice: sh.MicrosPrice,
			}
		}
		if err := repo.CreateDetails(ctx, details); err != nil {
			return err
		}
		return repo.MarkBatchHarvested(ctx, batch.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record harvest")
	}

	s.invalidateBatchListing(ctx)

	return s.GetHarvest(ctx, batch.ID)
}

func (s *service) GetHarvest(ctx context.Context, batchID uuid.UUID) (*HarvestView, error) {
	if batchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "batch id required")
	}

	summary, err := s.repo.FindByBatch(ctx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "harvest not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load harvest")
	}
	return &HarvestView{HarvestSummary: *summary}, nil
}

func (s *service) invalidateBatchListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx, batchListCacheEntity); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("batch listing cache invalidation failed: %v", err))
	}
}
