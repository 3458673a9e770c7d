// Package heloc orchestrates two-phase HELOC schedule analysis: repayment
// period validation, edge-flag detection, LTV metrics, and ordered warnings.
package heloc

import (
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"go.uber.org/zap"
)

// Input describes a HELOC analysis scenario.
type Input struct {
	PropertyValue      float64   `json:"propertyValue"`
	OutstandingBalance float64   `json:"outstandingBalance"`
	HelocAmount        float64   `json:"helocAmount"`
	Rate               float64   `json:"rate"`
	DrawYears          int       `json:"drawYears"`
	TotalYears         int       `json:"totalYears"`
	StartDate          time.Time `json:"startDate,omitempty"`
}

// Payments holds the representative payment amounts for each phase.
type Payments struct {
	InterestOnly      float64 `json:"interestOnly"`
	PrincipalInterest float64 `json:"principalInterest"`
}

// PhaseTotals splits interest by phase.
type PhaseTotals struct {
	DrawInterest      float64 `json:"drawInterest"`
	RepaymentInterest float64 `json:"repaymentInterest"`
	TotalInterest     float64 `json:"totalInterest"`
	TotalPrincipal    float64 `json:"totalPrincipal"`
}

// LTVMetrics holds equity and combined loan-to-value figures.
type LTVMetrics struct {
	CombinedLTV     float64 `json:"combinedLTV"`
	AvailableEquity float64 `json:"availableEquity"`
}

// EdgeFlags records the numeric edge cases encountered during analysis.
type EdgeFlags struct {
	ZeroInterest            bool `json:"zeroInterest"`
	RepaymentMonthsAdjusted bool `json:"repaymentMonthsAdjusted"`
	BalanceClamped          bool `json:"balanceClamped"`
	RoundingAdjusted        bool `json:"roundingAdjusted"`
}

// AnalysisResult is the aggregate HELOC analysis envelope.
type AnalysisResult struct {
	Inputs          Input                      `json:"inputs"`
	Payments        Payments                   `json:"payments"`
	Schedule        []amortization.ScheduleRow `json:"schedule"`
	Totals          PhaseTotals                `json:"totals"`
	LTV             LTVMetrics                 `json:"ltv"`
	EdgeFlags       EdgeFlags                  `json:"edgeFlags"`
	Warnings        []string                   `json:"warnings,omitempty"`
	PayoffDate      time.Time                  `json:"payoffDate"`
	RepaymentMonths int                        `json:"repaymentMonths"`
}

// RepaymentPeriod is the validated repayment horizon.
type RepaymentPeriod struct {
	Months   int
	Adjusted bool
	Message  string
}

// ComputeRepaymentMonths validates the draw/total term ordering. A total
// term equal to the draw period is auto-extended to a minimal repayment
// window; a total term shorter than the draw period is a validation error.
func ComputeRepaymentMonths(totalYears, drawYears int) (RepaymentPeriod, error) {
	diff := totalYears - drawYears
	if diff < 0 {
		return RepaymentPeriod{}, validation.NewValidationError("totalYears",
			"repayment period must exceed draw period")
	}
	if diff == 0 {
		return RepaymentPeriod{
			Months:   constants.MinimumRepaymentMonths,
			Adjusted: true,
			Message: fmt.Sprintf("Repayment period auto-extended to %d months because the total term equals the draw period.",
				constants.MinimumRepaymentMonths),
		}, nil
	}
	return RepaymentPeriod{Months: diff * constants.MonthsPerYear}, nil
}

// Calculator runs HELOC analyses.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a new HELOC calculator.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// ComputeHelocAnalysis builds the full two-phase analysis for a HELOC
// scenario. It returns a ValidationError only when the repayment period is
// shorter than the draw period; every other edge degrades to flags and
// warnings on the result.
func (c *Calculator) ComputeHelocAnalysis(input Input) (*AnalysisResult, error) {
	period, err := ComputeRepaymentMonths(input.TotalYears, input.DrawYears)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{Inputs: input, RepaymentMonths: period.Months}
	result.EdgeFlags.RepaymentMonthsAdjusted = period.Adjusted
	result.EdgeFlags.ZeroInterest = amortization.MonthlyRate(input.Rate) == 0

	built := amortization.BuildHelocTwoPhaseSchedule(input.HelocAmount, input.Rate,
		input.DrawYears, input.TotalYears, amortization.HelocScheduleOptions{
			RepaymentMonthsOverride: period.Months,
			StartDate:               input.StartDate,
			Accumulate:              true,
		})

	result.EdgeFlags.BalanceClamped = built.BalanceClamped
	result.Payments = Payments{
		InterestOnly:      mathutil.Round(built.InterestOnlyPayment),
		PrincipalInterest: mathutil.Round(built.RepaymentPayment),
	}

	rows := built.Rows
	if folded := foldSubCentResidual(rows); folded != nil {
		rows = folded
		result.EdgeFlags.RoundingAdjusted = true
		c.logger.Debug("folded sub-cent final payment into penultimate row",
			zap.String("op", "heloc.ComputeHelocAnalysis"),
		)
	}
	// Totals come from the raw rows; summing display-rounded values lets
	// drift accumulate linearly with schedule length.
	result.Totals = sumPhaseTotals(rows)
	result.Schedule = roundRows(rows)

	if input.PropertyValue > 0 {
		result.LTV.CombinedLTV = mathutil.CalculatePercentage(
			input.OutstandingBalance+input.HelocAmount, input.PropertyValue)
		result.LTV.AvailableEquity = input.PropertyValue - input.OutstandingBalance
	}

	if len(result.Schedule) > 0 {
		result.PayoffDate = result.Schedule[len(result.Schedule)-1].PaymentDate
	}

	result.Warnings = deriveWarnings(result, period)

	return result, nil
}

// foldSubCentResidual drops a terminal repayment row whose principal is a
// sub-cent remainder, folding it into the penultimate row. Returns nil when
// no fold applies.
func foldSubCentResidual(rows []amortization.ScheduleRow) []amortization.ScheduleRow {
	if len(rows) < 2 {
		return nil
	}
	last := rows[len(rows)-1]
	penultimate := rows[len(rows)-2]
	if last.Phase != amortization.PhasePrincipalInterest ||
		penultimate.Phase != amortization.PhasePrincipalInterest {
		return nil
	}
	if last.PrincipalPayment <= 0 || last.PrincipalPayment >= constants.CurrencyTolerance {
		return nil
	}

	folded := make([]amortization.ScheduleRow, len(rows)-1)
	copy(folded, rows[:len(rows)-1])
	target := &folded[len(folded)-1]
	target.PrincipalPayment += last.PrincipalPayment
	target.Payment += last.PrincipalPayment + last.InterestPayment
	target.InterestPayment += last.InterestPayment
	target.CumulativePrincipal = last.CumulativePrincipal
	target.CumulativeInterest = last.CumulativeInterest
	target.Balance = 0
	return folded
}

func roundRows(rows []amortization.ScheduleRow) []amortization.ScheduleRow {
	rounded := make([]amortization.ScheduleRow, len(rows))
	for i, row := range rows {
		row.Payment = mathutil.Round(row.Payment)
		row.PrincipalPayment = mathutil.Round(row.PrincipalPayment)
		row.InterestPayment = mathutil.Round(row.InterestPayment)
		row.Balance = mathutil.Round(row.Balance)
		row.CumulativePrincipal = mathutil.Round(row.CumulativePrincipal)
		row.CumulativeInterest = mathutil.Round(row.CumulativeInterest)
		rounded[i] = row
	}
	return rounded
}

// sumPhaseTotals aggregates interest by phase from unrounded rows, rounding
// each aggregate once at the end.
func sumPhaseTotals(rows []amortization.ScheduleRow) PhaseTotals {
	var totals PhaseTotals
	for _, row := range rows {
		if row.Phase == amortization.PhaseInterestOnly {
			totals.DrawInterest += row.InterestPayment
		} else {
			totals.RepaymentInterest += row.InterestPayment
		}
		totals.TotalPrincipal += row.PrincipalPayment
	}
	totals.DrawInterest = mathutil.Round(totals.DrawInterest)
	totals.RepaymentInterest = mathutil.Round(totals.RepaymentInterest)
	totals.TotalInterest = mathutil.Round(totals.DrawInterest + totals.RepaymentInterest)
	totals.TotalPrincipal = mathutil.Round(totals.TotalPrincipal)
	return totals
}

// deriveWarnings produces the ordered, user-facing warning list. The order
// is fixed so the UI display and test assertions stay stable.
func deriveWarnings(result *AnalysisResult, period RepaymentPeriod) []string {
	var warnings []string

	if period.Message != "" {
		warnings = append(warnings, period.Message)
	}

	warnings = append(warnings, validation.ValidateLTVBounds(result.LTV.CombinedLTV)...)

	if result.EdgeFlags.ZeroInterest {
		warnings = append(warnings, "Zero interest rate: the repayment phase amortizes linearly with no interest cost.")
	}
	if result.EdgeFlags.RepaymentMonthsAdjusted {
		warnings = append(warnings, "The repayment period was automatically adjusted; review the draw and total terms.")
	}
	if result.EdgeFlags.RoundingAdjusted {
		warnings = append(warnings, "A sub-cent final payment was folded into the previous month.")
	}

	return warnings
}
