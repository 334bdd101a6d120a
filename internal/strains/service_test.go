package strains

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
)

type fakeRepo struct {
	strains  map[uuid.UUID]*models.Strain
	assigned int64
	countErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{strains: map[uuid.UUID]*models.Strain{}}
}

func (f *fakeRepo) Create(_ context.Context, strain *models.Strain) (*models.Strain, error) {
	strain.ID = uuid.New()
	f.strains[strain.ID] = strain
	return strain, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Strain, error) {
	strain, ok := f.strains[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return strain, nil
}

func (f *fakeRepo) List(_ context.Context) ([]models.Strain, error) {
	out := make([]models.Strain, 0, len(f.strains))
	for _, strain := range f.strains {
		out = append(out, *strain)
	}
	return out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.strains[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.strains, id)
	return nil
}

func (f *fakeRepo) CountAssignments(_ context.Context, _ uuid.UUID) (int64, error) {
	return f.assigned, f.countErr
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateStrainTrimsName(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	classification := enums.StrainClassificationHybrid
	strain, err := svc.CreateStrain(context.Background(), CreateStrainInput{
		Name:           "  Wedding Cake  ",
		Classification: &classification,
	})
	if err != nil {
		t.Fatalf("CreateStrain: %v", err)
	}
	if strain.Name != "Wedding Cake" {
		t.Fatalf("expected trimmed name, got %q", strain.Name)
	}
}

func TestCreateStrainRequiresName(t *testing.T) {
	svc := newTestService(t, newFakeRepo())

	_, err := svc.CreateStrain(context.Background(), CreateStrainInput{Name: "   "})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetStrainNotFound(t *testing.T) {
	svc := newTestService(t, newFakeRepo())

	_, err := svc.GetStrain(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteStrainBlockedWhenAssigned(t *testing.T) {
	repo := newFakeRepo()
	repo.assigned = 3
	svc := newTestService(t, repo)

	strain, err := svc.CreateStrain(context.Background(), CreateStrainInput{Name: "GMO"})
	if err != nil {
		t.Fatalf("CreateStrain: %v", err)
	}

	err = svc.DeleteStrain(context.Background(), strain.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]any)
	if !ok || details["assignments"] != int64(3) {
		t.Fatalf("expected assignment count in details, got %v", appErr.Details())
	}
	if _, ok := repo.strains[strain.ID]; !ok {
		t.Fatal("strain should not have been deleted")
	}
}

func TestDeleteStrainUnassigned(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	strain, err := svc.CreateStrain(context.Background(), CreateStrainInput{Name: "Zkittlez"})
	if err != nil {
		t.Fatalf("CreateStrain: %v", err)
	}

	if err := svc.DeleteStrain(context.Background(), strain.ID); err != nil {
		t.Fatalf("DeleteStrain: %v", err)
	}
	if _, ok := repo.strains[strain.ID]; ok {
		t.Fatal("strain should have been deleted")
	}
}
