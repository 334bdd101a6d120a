package batches

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantops/canopy-backend/pkg/db/models"
	"github.com/verdantops/canopy-backend/pkg/enums"
	"github.com/verdantops/canopy-backend/pkg/pagination"
)

// FlipOffsetDays is how long after the start date a batch is expected to flip
// from vegetative growth to flower.
const FlipOffsetDays = 14

// CreateBatchInput carries a validated batch create request.
type CreateBatchInput struct {
	RoomID              *uuid.UUID
	Code                string
	StartDate           time.Time
	ExpectedHarvestDate *time.Time
	Status              enums.BatchStatus
	Assignments         []ProposedAssignment
}

// ListParams narrows and pages a batch listing.
type ListParams struct {
	pagination.Params
	Status *enums.BatchStatus
}

type listQuery struct {
	limit  int
	cursor *pagination.Cursor
	status *enums.BatchStatus
}

// ListResult is one page of batch views plus the cursor for the next page.
type ListResult struct {
	Items  []BatchView `json:"items"`
	Cursor string      `json:"cursor,omitempty"`
}

// BatchView is a batch row with the derived fields callers render alongside it.
type BatchView struct {
	models.Batch
	FlipDate        time.Time       `json:"flip_date"`
	TotalLights     int             `json:"total_lights"`
	TotalPercentage decimal.Decimal `json:"total_percentage"`
	StrainNames     string          `json:"strain_names"`
}

// NewBatchView derives the computed fields for a loaded batch. Assignments must
// be preloaded for the totals and names to be populated.
func NewBatchView(batch models.Batch) BatchView {
	totalPct := decimal.Zero
	names := make([]string, 0, len(batch.Assignments))
	for _, a := range batch.Assignments {
		totalPct = totalPct.Add(a.Percentage)
		if a.Strain != nil {
			names = append(names, a.Strain.Name)
		}
	}
	return BatchView{
		Batch:           batch,
		FlipDate:        batch.StartDate.AddDate(0, 0, FlipOffsetDays),
		TotalLights:     batch.TotalLights(),
		TotalPercentage: totalPct,
		StrainNames:     strings.Join(names, ", "),
	}
}
