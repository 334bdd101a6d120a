package enums

import "fmt"

// StrainClassification represents the canonical strain class values.
type StrainClassification string

const (
	StrainClassificationSativa StrainClassification = "sativa"
	StrainClassificationIndica StrainClassification = "indica"
	StrainClassificationHybrid StrainClassification = "hybrid"
)

var validStrainClassifications = []StrainClassification{
	StrainClassificationSativa,
	StrainClassificationIndica,
	StrainClassificationHybrid,
}

// String implements fmt.Stringer.
func (c StrainClassification) String() string {
	return string(c)
}

// IsValid reports whether the value matches a known StrainClassification.
func (c StrainClassification) IsValid() bool {
	for _, candidate := range validStrainClassifications {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseStrainClassification converts raw input into a StrainClassification.
func ParseStrainClassification(value string) (StrainClassification, error) {
	for _, candidate := range validStrainClassifications {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid strain classification %q", value)
}
