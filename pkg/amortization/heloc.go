package amortization

import (
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
)

// HelocScheduleOptions controls optional behavior of the two-phase builder.
type HelocScheduleOptions struct {
	// RepaymentMonthsOverride replaces the (totalYears-drawYears)*12 default
	// when positive.
	RepaymentMonthsOverride int

	// StartDate anchors row dates; the zero value synthesizes dates from now.
	StartDate time.Time

	// Accumulate maintains running cumulative principal/interest per row.
	Accumulate bool
}

// HelocScheduleResult holds a two-phase HELOC schedule run. BalanceClamped
// reports that a scheduled principal reduction exceeded the remaining balance
// and was clamped; callers surface it as an edge flag.
type HelocScheduleResult struct {
	Rows                []ScheduleRow
	InterestOnlyPayment float64
	RepaymentPayment    float64
	RepaymentMonths     int
	BalanceClamped      bool
	ZeroRate            bool
}

// BuildHelocTwoPhaseSchedule builds the interest-only draw phase followed by
// the amortizing repayment phase. Row values are left unrounded; consumers
// that display schedules round after any sub-cent folding. The transition is one-way at month
// drawMonths+1; the schedule terminates when the balance reaches zero or the
// repayment months are exhausted.
func BuildHelocTwoPhaseSchedule(principal, annualRate float64, drawYears, totalYears int, opts HelocScheduleOptions) HelocScheduleResult {
	var result HelocScheduleResult

	if principal <= 0 {
		return result
	}

	monthlyRate := MonthlyRate(annualRate)
	result.ZeroRate = monthlyRate == 0

	drawMonths := drawYears * constants.MonthsPerYear
	repaymentMonths := opts.RepaymentMonthsOverride
	if repaymentMonths <= 0 {
		repaymentMonths = (totalYears - drawYears) * constants.MonthsPerYear
	}
	if repaymentMonths <= 0 {
		return result
	}
	result.RepaymentMonths = repaymentMonths

	result.InterestOnlyPayment = principal * monthlyRate
	if result.ZeroRate {
		result.RepaymentPayment = principal / float64(repaymentMonths)
	} else {
		result.RepaymentPayment = CalculateMonthlyPayment(principal, annualRate, repaymentMonths)
	}

	startDate := opts.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	cumulativePrincipal := 0.0
	cumulativeInterest := 0.0

	appendRow := func(row ScheduleRow) {
		if opts.Accumulate {
			cumulativePrincipal += row.PrincipalPayment
			cumulativeInterest += row.InterestPayment
			row.CumulativePrincipal = cumulativePrincipal
			row.CumulativeInterest = cumulativeInterest
		}
		result.Rows = append(result.Rows, row)
	}

	// Draw phase: no principal movement, balance stays at full principal.
	for month := 1; month <= drawMonths; month++ {
		appendRow(ScheduleRow{
			PaymentNumber:    month,
			PaymentDate:      datetime.MonthOffset(startDate, month),
			Phase:            PhaseInterestOnly,
			Payment:          result.InterestOnlyPayment,
			PrincipalPayment: 0,
			InterestPayment:  result.InterestOnlyPayment,
			Balance:          principal,
		})
	}

	// Repayment phase.
	remainingBalance := principal
	for month := 1; month <= repaymentMonths && remainingBalance > 0; month++ {
		interest := 0.0
		if !result.ZeroRate {
			interest = remainingBalance * monthlyRate
		}

		principalPortion := result.RepaymentPayment - interest
		if result.ZeroRate {
			principalPortion = result.RepaymentPayment
		}
		if overshoot := principalPortion - remainingBalance; overshoot > 0 {
			principalPortion = remainingBalance
			// Sub-cent overshoot is float noise, not a real clamp.
			if overshoot > constants.CurrencyTolerance {
				result.BalanceClamped = true
			}
		}

		remainingBalance -= principalPortion
		if remainingBalance < 0 {
			remainingBalance = 0
		}

		paymentNumber := drawMonths + month
		appendRow(ScheduleRow{
			PaymentNumber:    paymentNumber,
			PaymentDate:      datetime.MonthOffset(startDate, paymentNumber),
			Phase:            PhasePrincipalInterest,
			Payment:          principalPortion + interest,
			PrincipalPayment: principalPortion,
			InterestPayment:  interest,
			Balance:          remainingBalance,
		})
	}

	return result
}
