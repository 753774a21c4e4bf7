package enums

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxCategory distinguishes the reduced food rate from the standard rate.
type TaxCategory string

const (
	// TaxCategoryReduced is the 8% rate applied to food items.
	TaxCategoryReduced TaxCategory = "reduced"
	// TaxCategoryStandard is the 10% rate applied to everything else.
	TaxCategoryStandard TaxCategory = "standard"
)

var validTaxCategories = []TaxCategory{
	TaxCategoryReduced,
	TaxCategoryStandard,
}

var (
	reducedRate  = decimal.NewFromFloat(0.08)
	standardRate = decimal.NewFromFloat(0.10)
)

// String implements fmt.Stringer.
func (t TaxCategory) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TaxCategory.
func (t TaxCategory) IsValid() bool {
	for _, candidate := range validTaxCategories {
		if candidate == t {
			return true
		}
	}
	return false
}

// Rate returns the tax rate as a decimal fraction.
func (t TaxCategory) Rate() decimal.Decimal {
	if t == TaxCategoryReduced {
		return reducedRate
	}
	return standardRate
}

// ParseTaxCategory converts raw input into a TaxCategory.
func ParseTaxCategory(value string) (TaxCategory, error) {
	for _, candidate := range validTaxCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tax category %q", value)
}
