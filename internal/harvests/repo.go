package harvests

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
)

// Repository defines persistence operations for harvest summary and detail rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByBatch(ctx context.Context, batchID uuid.UUID) (*models.HarvestSummary, error)
	DeleteByBatch(ctx context.Context, batchID uuid.UUID) error
	CreateSummary(ctx context.Context, summary *models.HarvestSummary) (*models.HarvestSummary, error)
	CreateDetails(ctx context.Context, details []models.HarvestDetail) error
	MarkBatchHarvested(ctx context.Context, batchID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a harvests repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByBatch(ctx context.Context, batchID uuid.UUID) (*models.HarvestSummary, error) {
	var summary models.HarvestSummary
	err := r.db.WithContext(ctx).
		Preload("Details.Strain").
		Where("batch_id = ?", batchID).
		First(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// DeleteByBatch removes any prior summary and its detail rows, details first.
// A missing summary is not an error, re-saves and first saves share this path.
func (r *repository) DeleteByBatch(ctx context.Context, batchID uuid.UUID) error {
	var summary models.HarvestSummary
	err := r.db.WithContext(ctx).Where("batch_id = ?", batchID).First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := r.db.WithContext(ctx).
		Where("summary_id = ?", summary.ID).
		Delete(&models.HarvestDetail{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.HarvestSummary{}, "id = ?", summary.ID).Error
}

func (r *repository) CreateSummary(ctx context.Context, summary *models.HarvestSummary) (*models.HarvestSummary, error) {
	if err := r.db.WithContext(ctx).Create(summary).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *repository) CreateDetails(ctx context.Context, details []models.HarvestDetail) error {
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&details).Error
}

func (r *repository) MarkBatchHarvested(ctx context.Context, batchID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ?", batchID).
		Update("status", enums.BatchStatusHarvested)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
