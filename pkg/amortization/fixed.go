package amortization

import (
	"math"
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
)

// MonthlyRate converts a nominal annual percentage rate into a periodic
// monthly rate, snapping near-zero values to exactly zero.
func MonthlyRate(annualRate float64) float64 {
	rate := annualRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	if math.Abs(rate) < constants.ZeroRateEpsilon {
		return 0
	}
	return rate
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula. Zero-rate loans divide the principal evenly
// across the term.
func CalculateMonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}

	periodicRate := MonthlyRate(annualRate)
	if periodicRate == 0 {
		return principal / float64(termMonths)
	}

	power := math.Pow(1.00+periodicRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualRate)
}

// FixedResult holds a fixed-rate amortization run.
type FixedResult struct {
	Schedule             []ScheduleRow
	MonthlyPayment       float64
	TotalPrincipal       float64
	TotalInterest        float64
	ZeroRate             bool
	NormalizationApplied bool
}

// ComputeFixedAmortization builds the schedule for a single fixed-rate loan.
// A positive payment overrides the computed annuity payment, which supports
// externally-dictated payment amounts that may not exactly amortize to zero;
// the residual normalization pass cleans up the leftover in that case.
// Degenerate inputs (non-positive principal or term) return an empty result.
func ComputeFixedAmortization(principal, annualRate float64, termMonths int, payment float64, startDate time.Time) FixedResult {
	var result FixedResult

	if principal <= 0 || termMonths <= 0 {
		return result
	}

	monthlyRate := MonthlyRate(annualRate)
	result.ZeroRate = monthlyRate == 0

	if payment <= 0 {
		if result.ZeroRate {
			payment = principal / float64(termMonths)
		} else {
			payment = CalculateMonthlyPayment(principal, annualRate, termMonths)
		}
	}
	result.MonthlyPayment = payment

	if startDate.IsZero() {
		startDate = time.Now()
	}

	remainingBalance := principal
	for month := 1; month <= termMonths && remainingBalance > constants.CurrencyTolerance; month++ {
		interest := 0.0
		if !result.ZeroRate {
			interest = remainingBalance * monthlyRate
		}

		principalPortion := payment - interest
		if result.ZeroRate {
			principalPortion = payment
		}
		if principalPortion > remainingBalance {
			principalPortion = remainingBalance
		}

		remainingBalance -= principalPortion
		result.TotalPrincipal += principalPortion
		result.TotalInterest += interest

		result.Schedule = append(result.Schedule, ScheduleRow{
			PaymentNumber:    month,
			PaymentDate:      datetime.MonthOffset(startDate, month),
			Phase:            PhasePrincipalInterest,
			Payment:          mathutil.Round(principalPortion + interest),
			PrincipalPayment: mathutil.Round(principalPortion),
			InterestPayment:  mathutil.Round(interest),
			Balance:          mathutil.Round(remainingBalance),
		})
	}

	normalizeResidual(&result)

	return result
}

// normalizeResidual folds small terminal balances into the final row. An
// externally-dictated payment can leave a leftover that compounds from
// rounding; anything under the fold limit is treated as schedule noise, not
// a real balance.
func normalizeResidual(result *FixedResult) {
	if len(result.Schedule) == 0 {
		return
	}

	last := &result.Schedule[len(result.Schedule)-1]
	residual := last.Balance

	if residual > constants.CurrencyTolerance && residual < constants.ResidualFoldLimit {
		last.PrincipalPayment = mathutil.Round(last.PrincipalPayment + residual)
		last.Payment = mathutil.Round(last.Payment + residual)
		result.TotalPrincipal += residual
		last.Balance = 0
		result.NormalizationApplied = true
	} else if residual > 0 && residual <= constants.CurrencyTolerance {
		last.Balance = 0
		result.NormalizationApplied = true
	}
}
