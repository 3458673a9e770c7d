package blended

import (
	"fmt"

	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"go.uber.org/zap"
)

// Calculator runs blended-mortgage calculations. It holds no result state;
// Calculate returns everything and concurrent use is safe.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a new blended-mortgage calculator.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Calculate validates the scenario, amortizes every component
// independently, merges the schedules, and derives the combined metrics.
func (c *Calculator) Calculate(params Params) (*Result, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	result := &Result{}

	first := c.amortizeComponent(params.First, false)
	result.FirstMortgage = first
	if amortization.MonthlyRate(params.First.Rate) == 0 {
		result.Flags.ZeroRateHandled = true
	}

	components := []*ComponentResult{&result.FirstMortgage}

	if params.Second != nil {
		second := c.amortizeComponent(*params.Second, true)
		result.SecondMortgage = &second
		components = append(components, result.SecondMortgage)
		if amortization.MonthlyRate(params.Second.Rate) == 0 {
			result.Flags.ZeroRateHandled = true
		}
	}

	for _, component := range params.Additional {
		additional := c.amortizeComponent(component, false)
		result.AdditionalComponents = append(result.AdditionalComponents, additional)
		if amortization.MonthlyRate(component.Rate) == 0 {
			result.Flags.ZeroRateHandled = true
		}
	}
	for i := range result.AdditionalComponents {
		components = append(components, &result.AdditionalComponents[i])
	}
	result.Flags.ScheduleIncludesAdditional = len(result.AdditionalComponents) > 0

	result.Combined.Schedule = c.generateCombinedSchedule(result)
	if normalizeCombinedSchedule(result.Combined.Schedule) {
		result.Flags.NormalizationApplied = true
		c.logger.Debug("terminal residual folded out of combined schedule",
			zap.String("op", "blended.Calculate"),
		)
	}

	totalLoanAmount := 0.0
	totalInterest := 0.0
	totalMonthly := 0.0
	weightedRate := 0.0
	for _, component := range components {
		totalLoanAmount += component.Input.Amount
		totalInterest += component.TotalInterest
		weightedRate += component.Input.Amount * component.Input.Rate
		if component.Input.Type == ComponentHeloc {
			totalMonthly += component.InterestOnlyPayment
		} else {
			totalMonthly += component.MonthlyPayment
		}
	}

	result.Combined.TotalLoanAmount = mathutil.Round(totalLoanAmount)
	result.Combined.TotalInterest = mathutil.Round(totalInterest)
	result.Combined.TotalMonthlyPayment = mathutil.Round(totalMonthly)
	if totalLoanAmount > 0 {
		result.Combined.EffectiveRate = weightedRate / totalLoanAmount
	}
	if params.MonthlyIncome > 0 {
		result.Combined.DTIEstimate = mathutil.CalculatePercentage(totalMonthly, params.MonthlyIncome)
	}

	result.Combined.VsTraditional = compareToTraditional(totalLoanAmount, totalMonthly)
	result.LTV = computeLTV(params, totalLoanAmount)
	result.Assumptions = buildAssumptions(params)

	return result, nil
}

func validateParams(params Params) error {
	if params.HomeValue <= 0 {
		return validation.NewValidationError("homeValue", "home value must be positive")
	}
	if params.DownPayment < 0 {
		return validation.NewValidationError("downPayment", "down payment cannot be negative")
	}
	if params.DownPayment >= params.HomeValue {
		return validation.NewValidationError("downPayment", "down payment must be less than the home value")
	}
	if params.First.Amount <= 0 {
		return validation.NewValidationError("first.amount", "first mortgage amount must be positive")
	}
	if params.First.Rate <= 0 {
		return validation.NewValidationError("first.rate", "first mortgage rate must be positive")
	}
	if params.First.Rate > constants.MaxReasonableRatePercent {
		return validation.NewValidationError("first.rate",
			fmt.Sprintf("first mortgage rate exceeds %.0f%%", constants.MaxReasonableRatePercent))
	}
	if params.First.TermYears <= 0 {
		return validation.NewValidationError("first.termYears", "first mortgage term must be positive")
	}

	if params.Second != nil {
		combined := mathutil.CalculatePercentage(params.First.Amount+params.Second.Amount, params.HomeValue)
		if combined > constants.MaxCombinedLTVPercent {
			return validation.NewValidationError("second.amount",
				fmt.Sprintf("Combined loan-to-value ratio exceeds %.0f%%", constants.MaxCombinedLTVPercent))
		}
	}

	return nil
}

// amortizeComponent runs one component's schedule. Second-mortgage HELOCs
// always use the default 10-year draw / 20-year repayment split; additional
// components honor explicit DrawMonths/RepayMonths overrides.
func (c *Calculator) amortizeComponent(component Component, isSecondMortgage bool) ComponentResult {
	result := ComponentResult{Input: component}

	if component.Amount <= 0 {
		return result
	}

	switch component.Type {
	case ComponentHeloc:
		drawMonths := constants.DefaultHelocDrawMonths
		repayMonths := constants.DefaultHelocRepayMonths
		if !isSecondMortgage {
			if component.DrawMonths > 0 {
				drawMonths = component.DrawMonths
			}
			if component.RepayMonths > 0 {
				repayMonths = component.RepayMonths
			}
		}
		c.amortizeHeloc(&result, drawMonths, repayMonths)
	default:
		c.amortizeFixed(&result)
	}

	return result
}

func (c *Calculator) amortizeFixed(result *ComponentResult) {
	component := result.Input
	termMonths := component.TermYears * constants.MonthsPerYear
	if termMonths <= 0 {
		return
	}

	monthlyRate := amortization.MonthlyRate(component.Rate)
	payment := amortization.CalculateMonthlyPayment(component.Amount, component.Rate, termMonths)
	result.MonthlyPayment = mathutil.Round(payment)

	balance := component.Amount
	for month := 1; month <= termMonths && balance > 0; month++ {
		interest := balance * monthlyRate
		principal := payment - interest
		if monthlyRate == 0 {
			interest = 0
			principal = payment
		}
		if principal > balance {
			principal = balance
		}
		balance -= principal
		result.TotalPrincipal += principal
		result.TotalInterest += interest
		result.Schedule = append(result.Schedule, ComponentBreakdown{
			Principal: principal,
			Interest:  interest,
			Balance:   balance,
		})
	}

	foldComponentResidual(result)
	result.Months = len(result.Schedule)
	result.TotalPrincipal = mathutil.Round(result.TotalPrincipal)
	result.TotalInterest = mathutil.Round(result.TotalInterest)
}

func (c *Calculator) amortizeHeloc(result *ComponentResult, drawMonths, repayMonths int) {
	component := result.Input
	monthlyRate := amortization.MonthlyRate(component.Rate)

	result.InterestOnlyPayment = mathutil.Round(component.Amount * monthlyRate)
	for month := 1; month <= drawMonths; month++ {
		interest := component.Amount * monthlyRate
		result.TotalInterest += interest
		result.Schedule = append(result.Schedule, ComponentBreakdown{
			Interest: interest,
			Balance:  component.Amount,
		})
	}

	payment := amortization.CalculateMonthlyPayment(component.Amount, component.Rate, repayMonths)
	result.MonthlyPayment = mathutil.Round(payment)

	balance := component.Amount
	for month := 1; month <= repayMonths && balance > 0; month++ {
		interest := balance * monthlyRate
		principal := payment - interest
		if monthlyRate == 0 {
			interest = 0
			principal = payment
		}
		if principal > balance {
			principal = balance
		}
		balance -= principal
		result.TotalPrincipal += principal
		result.TotalInterest += interest
		result.Schedule = append(result.Schedule, ComponentBreakdown{
			Principal: principal,
			Interest:  interest,
			Balance:   balance,
		})
	}

	foldComponentResidual(result)
	result.Months = len(result.Schedule)
	result.TotalPrincipal = mathutil.Round(result.TotalPrincipal)
	result.TotalInterest = mathutil.Round(result.TotalInterest)
}

// foldComponentResidual folds a small terminal component balance into its
// final row's principal.
func foldComponentResidual(result *ComponentResult) {
	if len(result.Schedule) == 0 {
		return
	}
	last := &result.Schedule[len(result.Schedule)-1]
	if last.Balance > constants.CurrencyTolerance && last.Balance < constants.ResidualFoldLimit {
		last.Principal += last.Balance
		result.TotalPrincipal += last.Balance
		last.Balance = 0
	} else if last.Balance > 0 && last.Balance <= constants.CurrencyTolerance {
		last.Balance = 0
	}
}

// generateCombinedSchedule merges all component schedules row-by-row up to
// the longest component. A component contributes zeros once its own
// schedule is exhausted.
func (c *Calculator) generateCombinedSchedule(result *Result) []CombinedRow {
	maxLen := len(result.FirstMortgage.Schedule)
	if result.SecondMortgage != nil && len(result.SecondMortgage.Schedule) > maxLen {
		maxLen = len(result.SecondMortgage.Schedule)
	}
	for _, component := range result.AdditionalComponents {
		if len(component.Schedule) > maxLen {
			maxLen = len(component.Schedule)
		}
	}

	rowAt := func(schedule []ComponentBreakdown, i int) ComponentBreakdown {
		if i < len(schedule) {
			return schedule[i]
		}
		return ComponentBreakdown{}
	}

	rows := make([]CombinedRow, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		row := CombinedRow{
			PaymentNumber: i + 1,
			First:         rowAt(result.FirstMortgage.Schedule, i),
		}
		if result.SecondMortgage != nil {
			row.Second = rowAt(result.SecondMortgage.Schedule, i)
		}
		for _, component := range result.AdditionalComponents {
			row.Additional = append(row.Additional, rowAt(component.Schedule, i))
		}

		row.TotalPrincipal = row.First.Principal + row.Second.Principal
		row.TotalInterest = row.First.Interest + row.Second.Interest
		row.TotalRemainingBalance = row.First.Balance + row.Second.Balance
		for _, breakdown := range row.Additional {
			row.TotalPrincipal += breakdown.Principal
			row.TotalInterest += breakdown.Interest
			row.TotalRemainingBalance += breakdown.Balance
		}
		row.TotalPayment = row.TotalPrincipal + row.TotalInterest

		rows = append(rows, row)
	}

	return rows
}

// normalizeCombinedSchedule folds a small positive terminal balance so the
// merged schedule ends at exactly zero. Reports whether anything changed.
func normalizeCombinedSchedule(rows []CombinedRow) bool {
	if len(rows) == 0 {
		return false
	}
	last := &rows[len(rows)-1]
	if last.TotalRemainingBalance <= 0 {
		return false
	}
	if last.TotalRemainingBalance >= constants.ResidualFoldLimit {
		return false
	}

	residual := last.TotalRemainingBalance
	last.TotalPrincipal += residual
	last.TotalPayment += residual
	last.First.Principal += last.First.Balance
	last.First.Balance = 0
	last.Second.Principal += last.Second.Balance
	last.Second.Balance = 0
	for i := range last.Additional {
		last.Additional[i].Principal += last.Additional[i].Balance
		last.Additional[i].Balance = 0
	}
	last.TotalRemainingBalance = 0
	return true
}

func compareToTraditional(totalLoanAmount, blendedMonthly float64) Comparison {
	traditionalPI := amortization.CalculateMonthlyPayment(totalLoanAmount,
		constants.TraditionalComparisonRatePercent, constants.TraditionalComparisonTermMonths)
	monthlyDifference := blendedMonthly - traditionalPI
	return Comparison{
		TraditionalRate:      constants.TraditionalComparisonRatePercent,
		TraditionalMonthlyPI: mathutil.Round(traditionalPI),
		MonthlyDifference:    mathutil.Round(monthlyDifference),
		AnnualDifference:     mathutil.Round(monthlyDifference * constants.MonthsPerYear),
	}
}

func computeLTV(params Params, totalLoanAmount float64) LTVMetrics {
	return LTVMetrics{
		FirstMortgageLTV: mathutil.CalculatePercentage(params.First.Amount, params.HomeValue),
		CombinedLTV:      mathutil.CalculatePercentage(totalLoanAmount, params.HomeValue),
		AvailableEquity:  params.HomeValue - totalLoanAmount,
	}
}

// buildAssumptions documents the implicit defaults in a fixed order so a UI
// can render them as a disclosure list.
func buildAssumptions(params Params) []Assumption {
	assumptions := []Assumption{
		{
			Key: "helocPhaseDefaults",
			Value: fmt.Sprintf("%d-month draw / %d-month repayment",
				constants.DefaultHelocDrawMonths, constants.DefaultHelocRepayMonths),
			Phase:     "componentAmortization",
			Rationale: "Second-mortgage HELOCs use the default phase split regardless of the blended term; additional components may override it.",
		},
		{
			Key:       "effectiveRateMethod",
			Value:     "principal-weighted average of component rates",
			Phase:     "combinedMetrics",
			Rationale: "A simple weighted average, not an internal rate of return.",
		},
		{
			Key:       "zeroRateHandling",
			Value:     "linear amortization",
			Phase:     "componentAmortization",
			Rationale: "Components with a zero rate divide principal evenly across the term.",
		},
		{
			Key:       "roundingNormalization",
			Value:     fmt.Sprintf("terminal residuals under $%.2f folded into the final row", constants.ResidualFoldLimit),
			Phase:     "combinedSchedule",
			Rationale: "Keeps the reported final balance at exactly zero despite floating-point drift.",
		},
	}

	if params.Second != nil && params.Second.Type == ComponentHeloc &&
		(params.Second.DrawMonths > 0 || params.Second.RepayMonths > 0) {
		assumptions = append(assumptions, Assumption{
			Key:       "secondMortgageOverridesIgnored",
			Value:     "draw/repayment overrides on the second mortgage are not honored",
			Phase:     "componentAmortization",
			Rationale: "Only additional components accept explicit phase splits.",
		})
	}

	return assumptions
}
