package batches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a batches repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, batch *models.Batch) (*models.Batch, error) {
	if err := r.db.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Assignments.Strain").
		Preload("Harvest").
		Where("id = ?", id).
		First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *repository) List(ctx context.Context, query listQuery) ([]models.Batch, error) {
	q := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Assignments.Strain").
		Order("created_at DESC").
		Order("id DESC").
		Limit(query.limit)
	if query.status != nil {
		q = q.Where("status = ?", *query.status)
	}
	if query.cursor != nil {
		q = q.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			query.cursor.CreatedAt, query.cursor.CreatedAt, query.cursor.ID,
		)
	}

	var rows []models.Batch
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BatchStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Select("Assignments", "Harvest").
		Delete(&models.Batch{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountCodesLike(ctx context.Context, roomID *uuid.UUID, pattern string) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("code LIKE ?", pattern)
	if roomID != nil {
		q = q.Where("room_id = ?", *roomID)
	} else {
		q = q.Where("room_id IS NULL")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountForRoomWithStatus(ctx context.Context, roomID uuid.UUID, status enums.BatchStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("room_id = ? AND status = ?", roomID, status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
