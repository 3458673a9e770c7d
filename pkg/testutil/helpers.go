// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/schedule"
)

// FindLoan finds a loan result by name in the results slice.
// Returns the result if found, nil otherwise.
func FindLoan(results []*schedule.LoanResult, name string) *schedule.LoanResult {
	for _, result := range results {
		if result.Input.Name == name {
			return result
		}
	}
	return nil
}

// SumPrincipal totals the principal payments across schedule rows.
func SumPrincipal(rows []amortization.ScheduleRow) float64 {
	total := 0.0
	for _, row := range rows {
		total += row.PrincipalPayment
	}
	return total
}

// SumInterest totals the interest payments across schedule rows.
func SumInterest(rows []amortization.ScheduleRow) float64 {
	total := 0.0
	for _, row := range rows {
		total += row.InterestPayment
	}
	return total
}
