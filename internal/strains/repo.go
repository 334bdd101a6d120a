package strains

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
)

// Repository defines persistence operations for strain reference data.
type Repository interface {
	Create(ctx context.Context, strain *models.Strain) (*models.Strain, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Strain, error)
	List(ctx context.Context) ([]models.Strain, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountAssignments(ctx context.Context, strainID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a strains repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, strain *models.Strain) (*models.Strain, error) {
	if err := r.db.WithContext(ctx).Create(strain).Error; err != nil {
		return nil, err
	}
	return strain, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Strain, error) {
	var strain models.Strain
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&strain).Error
	if err != nil {
		return nil, err
	}
	return &strain, nil
}

func (r *repository) List(ctx context.Context) ([]models.Strain, error) {
	var strains []models.Strain
	err := r.db.WithContext(ctx).Order("name ASC").Find(&strains).Error
	if err != nil {
		return nil, err
	}
	return strains, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Strain{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountAssignments(ctx context.Context, strainID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BatchStrainAssignment{}).
		Where("strain_id = ?", strainID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
