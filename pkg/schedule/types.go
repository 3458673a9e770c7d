// Package schedule builds full fixed-loan payment schedules including PMI
// termination, extra-payment acceleration, and the no-extra baseline
// comparison used for savings deltas.
package schedule

import (
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
)

// LoanInput describes one house-style fixed-rate loan.
type LoanInput struct {
	Name           string    `json:"name,omitempty"`
	Amount         float64   `json:"amount"`
	Rate           float64   `json:"rate"`
	TermMonths     int       `json:"termMonths"`
	Extra          float64   `json:"extra,omitempty"`
	PMIMonthly     float64   `json:"pmiMonthly,omitempty"`
	PropertyTax    float64   `json:"propertyTax,omitempty"`
	HomeInsurance  float64   `json:"homeInsurance,omitempty"`
	HOA            float64   `json:"hoa,omitempty"`
	AppraisedValue float64   `json:"appraisedValue,omitempty"`
	PMIEndRule     float64   `json:"pmiEndRule,omitempty"`
	StartDate      time.Time `json:"startDate,omitempty"`
}

// PmiStatus is the tagged encoding of PMI lifecycle outcomes.
//
// NeverCharged deliberately conflates two situations the same way the
// payment engine always has: a zero loan amount and a starting LTV already
// at or below the threshold both report NeverCharged with EndsMonth 1.
type PmiStatus string

const (
	// PmiNeverCharged means PMI was never applicable at origination.
	PmiNeverCharged PmiStatus = "neverCharged"

	// PmiNeverDrops means PMI persisted for the entire schedule; EndsMonth
	// is unset because no month is PMI-free.
	PmiNeverDrops PmiStatus = "neverDrops"

	// PmiDropsAtMonth means PMI stopped partway; EndsMonth is the first
	// month number with no PMI charge.
	PmiDropsAtMonth PmiStatus = "dropsAtMonth"
)

// PmiMeta is the derived PMI metadata for a schedule. EndsMonth mirrors the
// status for serialization: 1 for NeverCharged, otherwise the first
// PMI-free month (PMI was charged through EndsMonth-1). When PMI never
// drops there is no PMI-free month and the field is omitted, so a
// serialized EndsMonth is always at least 1.
type PmiMeta struct {
	Status       PmiStatus `json:"status"`
	EndsMonth    int       `json:"endsMonth,omitempty"`
	MonthlyInput float64   `json:"monthlyInput"`
	TotalPaid    float64   `json:"totalPaid"`
	ThresholdLTV float64   `json:"thresholdLTV"`
}

// ExtraPaymentDelta compares a schedule run against its no-extra baseline.
type ExtraPaymentDelta struct {
	InterestSaved float64 `json:"interestSaved"`
	MonthsSaved   int     `json:"monthsSaved"`
}

// Totals aggregates schedule-wide cash flows. TotalOutOfPocket covers
// principal, interest, PMI, property tax, and insurance; HOA is tracked but
// excluded from out-of-pocket.
type Totals struct {
	TotalPrincipal   float64 `json:"totalPrincipal"`
	TotalInterest    float64 `json:"totalInterest"`
	TotalPMI         float64 `json:"totalPmi"`
	TotalTax         float64 `json:"totalTax"`
	TotalInsurance   float64 `json:"totalInsurance"`
	TotalHOA         float64 `json:"totalHoa"`
	TotalCostPI      float64 `json:"totalCostPI"`
	TotalOutOfPocket float64 `json:"totalOutOfPocket"`
}

// PayoffTime expresses the payoff horizon in whole years plus months.
type PayoffTime struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// TotalMonths returns the payoff horizon in months.
func (p PayoffTime) TotalMonths() int {
	return p.Years*12 + p.Months
}

// Evaluation carries scoring annotations set by the comparison engine.
type Evaluation struct {
	ScoreBasis string `json:"scoreBasis,omitempty"`
}

// LoanResult is the full computed result for one fixed loan: the echoed
// input plus every derived field, as explicit named fields.
type LoanResult struct {
	Input        LoanInput                  `json:"input"`
	MonthlyPI    float64                    `json:"monthlyPI"`
	MonthlyTotal float64                    `json:"monthlyTotal"`
	Schedule     []amortization.ScheduleRow `json:"schedule"`
	Totals       Totals                     `json:"totals"`
	PayoffTime   PayoffTime                 `json:"payoffTime"`
	Pmi          PmiMeta                    `json:"pmi"`
	ExtraDeltas  *ExtraPaymentDelta         `json:"extraDeltas,omitempty"`
	ZeroRate     bool                       `json:"zeroRate"`
	Evaluation   Evaluation                 `json:"evaluation"`
}
