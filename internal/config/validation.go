package config

import (
	"fmt"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
)

// ValidateConfiguration performs cross-field validation over every
// configured scenario and returns ordered, human-readable warnings. Hard
// input errors surface later from the calculators themselves; warnings here
// flag suspicious-but-computable configurations.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	for _, scenario := range conf.Purchases {
		name := scenario.Name
		if name == "" {
			name = "purchase"
		}
		if warning, err := validation.ValidateRate(name, scenario.Rate); err != nil {
			warnings = append(warnings, err.Error())
		} else if warning != "" {
			warnings = append(warnings, warning)
		}
		if scenario.DownPayment > scenario.PropertyValue {
			warnings = append(warnings, fmt.Sprintf("%s: down payment exceeds property value; treated as a cash purchase", name))
		}
		termMonths := scenario.TermMonths
		if termMonths == 0 {
			termMonths = scenario.TermYears * constants.MonthsPerYear
		}
		warnings = append(warnings, validation.ValidateTermMonths(name, termMonths)...)
	}

	if conf.Heloc != nil {
		if warning, err := validation.ValidateRate("heloc", conf.Heloc.Rate); err != nil {
			warnings = append(warnings, err.Error())
		} else if warning != "" {
			warnings = append(warnings, warning)
		}
		if conf.Heloc.TotalYears < conf.Heloc.DrawYears {
			warnings = append(warnings, "heloc: total term is shorter than the draw period; calculation will fail validation")
		}
	}

	if conf.Comparison != nil {
		switch conf.Comparison.Mode {
		case "", "totalOutOfPocket", "principalInterest", "payoffSpeed":
		default:
			warnings = append(warnings, fmt.Sprintf("comparison: unknown mode %q; totalOutOfPocket will be used", conf.Comparison.Mode))
		}
		for _, loan := range conf.Comparison.Loans {
			name := loan.Name
			if name == "" {
				name = "comparison loan"
			}
			if warning, err := validation.ValidateRate(name, loan.Rate); err != nil {
				warnings = append(warnings, err.Error())
			} else if warning != "" {
				warnings = append(warnings, warning)
			}
		}
	}

	return warnings
}
