package schedule

import (
	"math"
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// Builder generates fixed-loan schedules.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a new schedule builder.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// runTotals is the internal accumulator for one schedule pass.
type runTotals struct {
	rows         []amortization.ScheduleRow
	principal    float64
	interest     float64
	pmi          float64
	pmiEndsMonth int
	pmiActive    bool
	payoffMonths int
}

// BuildFixedLoanSchedule computes the month-by-month schedule for one loan,
// including PMI gated by the starting LTV, extra-payment acceleration, and
// (when an extra payment is present) a baseline shadow run with the same
// PMI and rounding rules to derive savings deltas.
//
// Malformed inputs degrade to zeroed, internally consistent results; no
// error is returned. Validation happens upstream.
func (b *Builder) BuildFixedLoanSchedule(input LoanInput) LoanResult {
	result := LoanResult{Input: input}

	if input.PMIEndRule <= 0 {
		input.PMIEndRule = constants.DefaultPMIEndRule
		result.Input.PMIEndRule = input.PMIEndRule
	}
	thresholdLTV := input.PMIEndRule / constants.PercentageMultiplier
	result.Pmi = PmiMeta{
		Status:       PmiNeverCharged,
		EndsMonth:    1,
		MonthlyInput: input.PMIMonthly,
		ThresholdLTV: thresholdLTV,
	}

	if input.Amount <= 0 || input.TermMonths <= 0 {
		return result
	}

	monthlyRate := amortization.MonthlyRate(input.Rate)
	result.ZeroRate = monthlyRate == 0
	result.MonthlyPI = amortization.CalculateMonthlyPayment(input.Amount, input.Rate, input.TermMonths)

	// PMI applies only with a positive charge, a known appraisal, and a
	// starting LTV above the threshold. No loan means no PMI.
	pmiApplies := input.PMIMonthly > 0 && input.AppraisedValue > 0 &&
		input.Amount/input.AppraisedValue > thresholdLTV

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	run := b.runSchedule(input, monthlyRate, result.MonthlyPI, input.Extra, pmiApplies, startDate)

	result.Schedule = run.rows
	result.Totals = assembleTotals(input, run)
	result.PayoffTime = PayoffTime{Years: run.payoffMonths / 12, Months: run.payoffMonths % 12}

	switch {
	case !pmiApplies:
		// Force the never-charged sentinel even if stray state accumulated.
		result.Pmi.Status = PmiNeverCharged
		result.Pmi.EndsMonth = 1
		result.Pmi.TotalPaid = 0
	case run.pmiActive || run.pmiEndsMonth > run.payoffMonths:
		// PMI charged through every month of the schedule: it never dropped,
		// even if the post-payoff balance check finally cleared the threshold.
		result.Pmi.Status = PmiNeverDrops
		result.Pmi.EndsMonth = 0
		result.Pmi.TotalPaid = mathutil.Round(run.pmi)
	default:
		result.Pmi.Status = PmiDropsAtMonth
		result.Pmi.EndsMonth = run.pmiEndsMonth
		result.Pmi.TotalPaid = mathutil.Round(run.pmi)
	}

	monthlyPMI := 0.0
	if pmiApplies {
		monthlyPMI = input.PMIMonthly
	}
	result.MonthlyTotal = mathutil.Round(result.MonthlyPI + monthlyPMI + input.PropertyTax + input.HomeInsurance + input.HOA)

	if input.Extra > 0 {
		baseline := b.runSchedule(input, monthlyRate, result.MonthlyPI, 0, pmiApplies, startDate)
		interestSaved := mathutil.Round(baseline.interest - run.interest)
		if interestSaved < 0 {
			interestSaved = 0
		}
		monthsSaved := baseline.payoffMonths - run.payoffMonths
		if monthsSaved < 0 {
			monthsSaved = 0
		}
		result.ExtraDeltas = &ExtraPaymentDelta{InterestSaved: interestSaved, MonthsSaved: monthsSaved}

		b.logger.Debug("extra payment deltas computed",
			zap.String("op", "schedule.BuildFixedLoanSchedule"),
			zap.Float64("interestSaved", interestSaved),
			zap.Int("monthsSaved", monthsSaved),
		)
	}

	return result
}

// runSchedule executes one month-by-month pass. Interest and principal are
// rounded to cents independently; when the rounded pair drifts a cent or
// more from the rounded scheduled payment the delta is pushed into the
// principal portion so every row's payment stays exact to the cent.
func (b *Builder) runSchedule(input LoanInput, monthlyRate, monthlyPI, extra float64, pmiApplies bool, startDate time.Time) runTotals {
	run := runTotals{pmiActive: pmiApplies}
	zeroRate := monthlyRate == 0
	roundedPI := mathutil.Round(monthlyPI)

	cumulativePrincipal := 0.0
	cumulativeInterest := 0.0

	balance := input.Amount
	for month := 1; month <= input.TermMonths && balance > 0; month++ {
		interest := 0.0
		if !zeroRate {
			interest = balance * monthlyRate
		}

		principal := monthlyPI - interest
		if zeroRate {
			principal = monthlyPI
		}

		roundedInterest := mathutil.Round(interest)
		roundedPrincipal := mathutil.Round(principal)
		// delta is a difference of cent-rounded values, so a real cent of
		// drift can sit just under 0.01 in float form. Compare in integer
		// cents instead of against the cent threshold directly.
		delta := roundedPI - (roundedInterest + roundedPrincipal)
		if math.Round(delta*constants.DecimalPrecision) != 0 {
			roundedPrincipal = mathutil.Round(roundedPrincipal + delta)
		}

		principalReduction := roundedPrincipal + extra
		if principalReduction > balance {
			principalReduction = balance
		}

		pmiCharge := 0.0
		if run.pmiActive {
			pmiCharge = input.PMIMonthly
		}

		balance = mathutil.Round(balance - principalReduction)
		if balance < 0 {
			balance = 0
		}

		if run.pmiActive && input.AppraisedValue > 0 &&
			balance/input.AppraisedValue <= input.PMIEndRule/constants.PercentageMultiplier {
			run.pmiActive = false
			run.pmiEndsMonth = month + 1
		}

		run.principal += principalReduction
		run.interest += roundedInterest
		run.pmi += pmiCharge

		cumulativePrincipal += principalReduction
		cumulativeInterest += roundedInterest

		run.rows = append(run.rows, amortization.ScheduleRow{
			PaymentNumber:       month,
			PaymentDate:         datetime.MonthOffset(startDate, month),
			Phase:               amortization.PhasePrincipalInterest,
			Payment:             mathutil.Round(principalReduction + roundedInterest),
			PrincipalPayment:    mathutil.Round(principalReduction),
			InterestPayment:     roundedInterest,
			Balance:             balance,
			CumulativePrincipal: mathutil.Round(cumulativePrincipal),
			CumulativeInterest:  mathutil.Round(cumulativeInterest),
			PMI:                 pmiCharge,
		})
	}

	// Terminal fold: per-row delta correction keeps payments cent-exact but
	// a few cents can still survive the full term. Anything under the fold
	// limit goes into the last row so the schedule ends at exactly zero.
	if len(run.rows) > 0 && balance > 0 && balance < constants.ResidualFoldLimit {
		last := &run.rows[len(run.rows)-1]
		last.PrincipalPayment = mathutil.Round(last.PrincipalPayment + balance)
		last.Payment = mathutil.Round(last.Payment + balance)
		last.CumulativePrincipal = mathutil.Round(last.CumulativePrincipal + balance)
		last.Balance = 0
		run.principal += balance
	}

	run.payoffMonths = len(run.rows)
	return run
}

func assembleTotals(input LoanInput, run runTotals) Totals {
	months := float64(run.payoffMonths)
	totals := Totals{
		TotalPrincipal: mathutil.Round(run.principal),
		TotalInterest:  mathutil.Round(run.interest),
		TotalPMI:       mathutil.Round(run.pmi),
		TotalTax:       mathutil.Round(input.PropertyTax * months),
		TotalInsurance: mathutil.Round(input.HomeInsurance * months),
		TotalHOA:       mathutil.Round(input.HOA * months),
	}
	// Both components are already cent-rounded; re-rounding the sum can
	// shift it by one ulp and break the principal+interest identity.
	totals.TotalCostPI = totals.TotalPrincipal + totals.TotalInterest
	totals.TotalOutOfPocket = mathutil.Round(totals.TotalCostPI + totals.TotalPMI + totals.TotalTax + totals.TotalInsurance)
	return totals
}
