// Package purchase translates a purchase scenario (property value, down
// payment, PMI rate) into a fixed-loan schedule calculation.
package purchase

import (
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/iwvelando/mortgage-calculator/pkg/schedule"
	"go.uber.org/zap"
)

// Input describes a purchase scenario.
type Input struct {
	Name          string    `json:"name,omitempty"`
	PropertyValue float64   `json:"propertyValue"`
	DownPayment   float64   `json:"downPayment"`
	Rate          float64   `json:"rate"`
	TermMonths    int       `json:"termMonths"`
	PMIRate       float64   `json:"pmiRate,omitempty"`
	PMIEndRule    float64   `json:"pmiEndRule,omitempty"`
	PropertyTax   float64   `json:"propertyTax,omitempty"`
	HomeInsurance float64   `json:"homeInsurance,omitempty"`
	HOA           float64   `json:"hoa,omitempty"`
	Extra         float64   `json:"extra,omitempty"`
	StartDate     time.Time `json:"startDate,omitempty"`
}

// Result is the computed purchase scenario.
type Result struct {
	LTV        float64             `json:"ltv"`
	LoanAmount float64             `json:"loanAmount"`
	Loan       schedule.LoanResult `json:"loan"`
}

// ComputePurchaseScenario derives the loan amount and PMI charge from the
// purchase inputs and delegates to the fixed-loan schedule builder. A cash
// purchase (zero loan) or an at/below-threshold starting LTV always reports
// the never-charged PMI sentinel, re-asserted here because the PMI
// eligibility is computed independently before delegating.
func ComputePurchaseScenario(logger *zap.Logger, input Input) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	loanAmount := mathutil.Max(0, input.PropertyValue-input.DownPayment)

	ltv := 0.0
	if input.PropertyValue > 0 {
		ltv = mathutil.CalculatePercentage(loanAmount, input.PropertyValue)
	}

	pmiEndRule := input.PMIEndRule
	if pmiEndRule <= 0 {
		pmiEndRule = constants.DefaultPMIEndRule
	}

	pmiMonthly := 0.0
	if ltv > pmiEndRule && input.PMIRate > 0 {
		pmiMonthly = input.PMIRate / constants.PercentageMultiplier / constants.MonthsPerYear * loanAmount
	}

	builder := schedule.NewBuilder(logger)
	loan := builder.BuildFixedLoanSchedule(schedule.LoanInput{
		Name:           input.Name,
		Amount:         loanAmount,
		Rate:           input.Rate,
		TermMonths:     input.TermMonths,
		Extra:          input.Extra,
		PMIMonthly:     pmiMonthly,
		PropertyTax:    input.PropertyTax,
		HomeInsurance:  input.HomeInsurance,
		HOA:            input.HOA,
		AppraisedValue: input.PropertyValue,
		PMIEndRule:     pmiEndRule,
		StartDate:      input.StartDate,
	})

	if loanAmount == 0 || ltv <= pmiEndRule {
		loan.Pmi.Status = schedule.PmiNeverCharged
		loan.Pmi.EndsMonth = 1
		loan.Pmi.TotalPaid = 0
	}

	logger.Debug("purchase scenario computed",
		zap.String("op", "purchase.ComputePurchaseScenario"),
		zap.Float64("loanAmount", loanAmount),
		zap.Float64("ltv", ltv),
	)

	return Result{
		LTV:        ltv,
		LoanAmount: loanAmount,
		Loan:       loan,
	}
}
