package batches

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
)

// maxPercentage allows a small rounding slack above a full room.
var maxPercentage = decimal.RequireFromString("100.1")

// ProposedAssignment is one strain's requested share of a batch before any row exists.
type ProposedAssignment struct {
	StrainID       uuid.UUID
	LightsAssigned int
	Percentage     decimal.Decimal
}

// ValidateAllocation decides whether a proposed assignment set is admissible for
// a room with the given light capacity. A nil or zero capacity means the room is
// unknown and the lights check is skipped; duplicate and percentage checks always
// apply. The input is returned untouched on success; percentages are never
// rescaled.
func ValidateAllocation(assignments []ProposedAssignment, lightCapacity *int) error {
	if len(assignments) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one strain assignment is required")
	}

	var violations error

	seen := map[uuid.UUID]bool{}
	totalLights := 0
	totalPercentage := decimal.Zero
	for _, a := range assignments {
		if a.StrainID == uuid.Nil {
			violations = multierr.Append(violations, fmt.Errorf("assignment missing strain id"))
			continue
		}
		if seen[a.StrainID] {
			violations = multierr.Append(violations, fmt.Errorf("strain %s assigned more than once", a.StrainID))
		}
		seen[a.StrainID] = true

		if a.LightsAssigned < 0 {
			violations = multierr.Append(violations, fmt.Errorf("strain %s has negative lights", a.StrainID))
		}
		if a.Percentage.IsNegative() {
			violations = multierr.Append(violations, fmt.Errorf("strain %s has negative percentage", a.StrainID))
		}

		totalLights += a.LightsAssigned
		totalPercentage = totalPercentage.Add(a.Percentage)
	}

	if lightCapacity != nil && *lightCapacity > 0 && totalLights > *lightCapacity {
		violations = multierr.Append(violations,
			fmt.Errorf("assigned lights %d exceed room capacity %d", totalLights, *lightCapacity))
	}
	if totalPercentage.GreaterThan(maxPercentage) {
		violations = multierr.Append(violations,
			fmt.Errorf("assigned percentage %s exceeds 100", totalPercentage.String()))
	}

	if violations == nil {
		return nil
	}

	details := []string{}
	for _, err := range multierr.Errors(violations) {
		details = append(details, err.Error())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, violations, "invalid strain allocation").
		WithDetails(map[string]any{"violations": details})
}
