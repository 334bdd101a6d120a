package costs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	"github.com/verdantops/canopy-backend/pkg/logger"
)

const hoursPerDay = 24

// CreateEntryInput holds a validated cost entry create request.
type CreateEntryInput struct {
	EntryDate time.Time
	Category  enums.CostCategory
	RoomID    *uuid.UUID
	BatchID   *uuid.UUID
	Amount    decimal.Decimal
	Note      *string
}

// GrowParams identifies the grow a cost-to-grow figure is computed for.
type GrowParams struct {
	BatchID   uuid.UUID
	RoomID    *uuid.UUID
	StartDate time.Time
	Lights    int
}

// GrowCost breaks a cost-to-grow figure into its parts.
type GrowCost struct {
	DaysActive      int             `json:"days_active"`
	RecordedCosts   decimal.Decimal `json:"recorded_costs"`
	ElectricityCost decimal.Decimal `json:"electricity_cost"`
	Total           decimal.Decimal `json:"total"`
}

// Service exposes cost entry management and the cost-to-grow model.
type Service interface {
	CreateEntry(ctx context.Context, input CreateEntryInput) (*models.CostEntry, error)
	ListEntries(ctx context.Context, filter ListFilter) ([]models.CostEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	CostToGrow(ctx context.Context, params GrowParams) (GrowCost, error)
}

type service struct {
	repo            Repository
	electricityRate decimal.Decimal
	logg            *logger.Logger
	now             func() time.Time
}

// NewService builds a cost service with the configured per-light-per-day
// electricity rate.
func NewService(repo Repository, electricityRate decimal.Decimal, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("costs repository required")
	}
	if electricityRate.IsNegative() {
		return nil, fmt.Errorf("electricity rate must not be negative")
	}
	return &service{
		repo:            repo,
		electricityRate: electricityRate,
		logg:            logg,
		now:             time.Now,
	}, nil
}

func (s *service) CreateEntry(ctx context.Context, input CreateEntryInput) (*models.CostEntry, error) {
	if input.EntryDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry date required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cost category")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	entry := &models.CostEntry{
		EntryDate: input.EntryDate,
		Category:  input.Category,
		RoomID:    input.RoomID,
		BatchID:   input.BatchID,
		Amount:    input.Amount,
		Note:      input.Note,
	}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cost entry")
	}
	return created, nil
}

func (s *service) ListEntries(ctx context.Context, filter ListFilter) ([]models.CostEntry, error) {
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cost entries")
	}
	return entries, nil
}

func (s *service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost entry id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cost entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cost entry")
	}
	return nil
}

// CostToGrow combines recorded expenses with a modeled electricity figure.
// A failed expense lookup degrades to zero recorded costs so the figure stays
// available.
func (s *service) CostToGrow(ctx context.Context, params GrowParams) (GrowCost, error) {
	if params.BatchID == uuid.Nil {
		return GrowCost{}, pkgerrors.New(pkgerrors.CodeValidation, "batch id required")
	}
	if params.StartDate.IsZero() {
		return GrowCost{}, pkgerrors.New(pkgerrors.CodeValidation, "start date required")
	}

	now := s.now()
	days := daysActive(params.StartDate, now)

	recorded, err := s.repo.SumForGrow(ctx, params.BatchID, params.RoomID, params.StartDate, now)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("recorded cost lookup failed, using 0: %v", err))
		}
		recorded = decimal.Zero
	}

	electricity := decimal.NewFromInt(int64(params.Lights)).
		Mul(s.electricityRate).
		Mul(decimal.NewFromInt(int64(days)))

	return GrowCost{
		DaysActive:      days,
		RecordedCosts:   recorded,
		ElectricityCost: electricity,
		Total:           recorded.Add(electricity),
	}, nil
}

// daysActive counts elapsed days from start to now, rounding any partial day
// up. A start in the future counts as zero.
func daysActive(start, now time.Time) int {
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	days := int(elapsed.Hours() / hoursPerDay)
	if elapsed%(hoursPerDay*time.Hour) != 0 {
		days++
	}
	return days
}
