package batches

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
)

func intPtr(v int) *int { return &v }

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestValidateAllocation_EmptySet(t *testing.T) {
	err := ValidateAllocation(nil, intPtr(100))
	if err == nil {
		t.Fatal("expected error for empty assignment set")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateAllocation_Valid(t *testing.T) {
	assignments := []ProposedAssignment{
		{StrainID: uuid.New(), LightsAssigned: 60, Percentage: pct("60")},
		{StrainID: uuid.New(), LightsAssigned: 40, Percentage: pct("40")},
	}
	if err := ValidateAllocation(assignments, intPtr(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateAllocation_DuplicateStrain(t *testing.T) {
	id := uuid.New()
	assignments := []ProposedAssignment{
		{StrainID: id, LightsAssigned: 10, Percentage: pct("50")},
		{StrainID: id, LightsAssigned: 10, Percentage: pct("50")},
	}
	err := ValidateAllocation(assignments, intPtr(100))
	if err == nil {
		t.Fatal("expected duplicate strain error")
	}
	if !strings.Contains(err.Error(), "more than once") {
		t.Fatalf("expected duplicate violation, got %v", err)
	}
}

func TestValidateAllocation_LightsOverCapacity(t *testing.T) {
	assignments := []ProposedAssignment{
		{StrainID: uuid.New(), LightsAssigned: 80, Percentage: pct("50")},
		{StrainID: uuid.New(), LightsAssigned: 30, Percentage: pct("50")},
	}
	err := ValidateAllocation(assignments, intPtr(100))
	if err == nil {
		t.Fatal("expected capacity error")
	}
	if !strings.Contains(err.Error(), "exceed room capacity") {
		t.Fatalf("expected capacity violation, got %v", err)
	}
}

func TestValidateAllocation_CapacitySkippedWhenUnknown(t *testing.T) {
	assignments := []ProposedAssignment{
		{StrainID: uuid.New(), LightsAssigned: 500, Percentage: pct("100")},
	}
	if err := ValidateAllocation(assignments, nil); err != nil {
		t.Fatalf("nil capacity should skip lights check: %v", err)
	}
	if err := ValidateAllocation(assignments, intPtr(0)); err != nil {
		t.Fatalf("zero capacity should skip lights check: %v", err)
	}
}

func TestValidateAllocation_PercentageTolerance(t *testing.T) {
	within := []ProposedAssignment{
		{StrainID: uuid.New(), LightsAssigned: 1, Percentage: pct("33.37")},
		{StrainID: uuid.New(), LightsAssigned: 1, Percentage: pct("33.37")},
		{StrainID: uuid.New(), LightsAssigned: 1, Percentage: pct("33.36")},
	}
	if err := ValidateAllocation(within, intPtr(10)); err != nil {
		t.Fatalf("100.10 total should pass: %v", err)
	}

	over := []ProposedAssignment{
		{StrainID: uuid.New(), LightsAssigned: 1, Percentage: pct("50.11")},
		{StrainID: uuid.New(), LightsAssigned: 1, Percentage: pct("50")},
	}
	if err := ValidateAllocation(over, intPtr(10)); err == nil {
		t.Fatal("100.11 total should fail")
	}
}

func TestValidateAllocation_CollectsAllViolations(t *testing.T) {
	id := uuid.New()
	assignments := []ProposedAssignment{
		{StrainID: id, LightsAssigned: 90, Percentage: pct("80")},
		{StrainID: id, LightsAssigned: 90, Percentage: pct("80")},
	}
	err := ValidateAllocation(assignments, intPtr(100))
	if err == nil {
		t.Fatal("expected violations")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", appErr.Details())
	}
	violations, ok := details["violations"].([]string)
	if !ok || len(violations) != 3 {
		t.Fatalf("expected duplicate, capacity, and percentage violations, got %v", details)
	}
}
