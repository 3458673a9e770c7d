package validation

import (
	"fmt"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// ValidateRate checks an annual percentage rate for sanity and returns a
// warning string when the rate is suspicious but still computable.
func ValidateRate(name string, rate float64) (string, error) {
	if rate < 0 {
		return "", NewValidationError(name, "interest rate cannot be negative")
	}
	if rate > constants.MaxReasonableRatePercent {
		return fmt.Sprintf("%s rate %.2f%% exceeds %.0f%% - verify the input", name, rate, constants.MaxReasonableRatePercent), nil
	}
	return "", nil
}

// ValidateTermMonths checks a loan term for plausible bounds.
func ValidateTermMonths(name string, termMonths int) []string {
	var warnings []string

	if termMonths > 50*constants.MonthsPerYear {
		warnings = append(warnings, fmt.Sprintf("%s term of %d months exceeds 50 years", name, termMonths))
	}

	return warnings
}

// ValidateLTVBounds checks a loan-to-value percentage and produces ordered
// warnings for high-LTV situations. Values above 100 indicate the liens
// exceed the collateral value.
func ValidateLTVBounds(ltvPercent float64) []string {
	var warnings []string

	if ltvPercent >= 90 && ltvPercent < 100 {
		warnings = append(warnings, "High combined loan-to-value ratio may affect approval.")
	}
	if ltvPercent >= 100 {
		warnings = append(warnings, "Combined loan-to-value ratio exceeds permissible limit.")
	}

	return warnings
}
