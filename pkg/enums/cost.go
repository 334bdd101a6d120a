package enums

import "fmt"

// CostCategory tags a cost entry for trend bucketing and reporting.
type CostCategory string

const (
	CostCategoryLabor       CostCategory = "labor"
	CostCategoryNutrients   CostCategory = "nutrients"
	CostCategoryElectricity CostCategory = "electricity"
	CostCategorySupplies    CostCategory = "supplies"
	CostCategoryRent        CostCategory = "rent"
	CostCategoryOther       CostCategory = "other"
)

var validCostCategories = []CostCategory{
	CostCategoryLabor,
	CostCategoryNutrients,
	CostCategoryElectricity,
	CostCategorySupplies,
	CostCategoryRent,
	CostCategoryOther,
}

// String implements fmt.Stringer.
func (c CostCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CostCategory.
func (c CostCategory) IsValid() bool {
	for _, candidate := range validCostCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCostCategory converts raw input into a CostCategory.
func ParseCostCategory(value string) (CostCategory, error) {
	for _, candidate := range validCostCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cost category %q", value)
}
