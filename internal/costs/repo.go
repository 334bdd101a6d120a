package costs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
)

// Repository defines persistence operations for cost entries.
type Repository interface {
	Create(ctx context.Context, entry *models.CostEntry) (*models.CostEntry, error)
	List(ctx context.Context, filter ListFilter) ([]models.CostEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SumForGrow(ctx context.Context, batchID uuid.UUID, roomID *uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

// ListFilter narrows a cost entry listing.
type ListFilter struct {
	BatchID  *uuid.UUID
	RoomID   *uuid.UUID
	Category *string
	From     *time.Time
	To       *time.Time
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a costs repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *models.CostEntry) (*models.CostEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.CostEntry, error) {
	q := r.db.WithContext(ctx).Order("entry_date DESC").Order("created_at DESC")
	if filter.BatchID != nil {
		q = q.Where("batch_id = ?", *filter.BatchID)
	}
	if filter.RoomID != nil {
		q = q.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.From != nil {
		q = q.Where("entry_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("entry_date <= ?", *filter.To)
	}

	var entries []models.CostEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.CostEntry{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumForGrow totals the entries attributable to a grow: anything pinned to the
// batch, plus anything pinned to its room inside the grow window.
func (r *repository) SumForGrow(ctx context.Context, batchID uuid.UUID, roomID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).
		Model(&models.CostEntry{}).
		Where("entry_date >= ? AND entry_date <= ?", from, to)
	if roomID != nil {
		q = q.Where("batch_id = ? OR room_id = ?", batchID, *roomID)
	} else {
		q = q.Where("batch_id = ?", batchID)
	}

	var total decimal.NullDecimal
	if err := q.Select("SUM(amount)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
