package strains

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
)

// CreateStrainInput holds a validated strain create request.
type CreateStrainInput struct {
	Name           string
	Code           *string
	Classification *enums.StrainClassification
	Abbreviation   *string
}

// Service exposes strain reference data management.
type Service interface {
	CreateStrain(ctx context.Context, input CreateStrainInput) (*models.Strain, error)
	GetStrain(ctx context.Context, id uuid.UUID) (*models.Strain, error)
	ListStrains(ctx context.Context) ([]models.Strain, error)
	DeleteStrain(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a strain service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("strains repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateStrain(ctx context.Context, input CreateStrainInput) (*models.Strain, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "strain name required")
	}
	if input.Classification != nil && !input.Classification.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid strain classification")
	}

	strain := &models.Strain{
		Name:           name,
		Code:           input.Code,
		Classification: input.Classification,
		Abbreviation:   input.Abbreviation,
	}
	created, err := s.repo.Create(ctx, strain)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create strain")
	}
	return created, nil
}

func (s *service) GetStrain(ctx context.Context, id uuid.UUID) (*models.Strain, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "strain id required")
	}
	strain, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "strain not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load strain")
	}
	return strain, nil
}

func (s *service) ListStrains(ctx context.Context) ([]models.Strain, error) {
	strains, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list strains")
	}
	return strains, nil
}

func (s *service) DeleteStrain(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "strain id required")
	}

	assigned, err := s.repo.CountAssignments(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check strain assignments")
	}
	if assigned > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "strain is assigned to batches").
			WithDetails(map[string]any{"assignments": assigned})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "strain not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete strain")
	}
	return nil
}
