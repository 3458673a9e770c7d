// Package blended aggregates multiple loan components (first mortgage,
// optional second mortgage or HELOC, and any additional components) into a
// single combined schedule with reconciliation and comparison metrics.
package blended

// ComponentType selects the amortization algorithm for one component.
type ComponentType string

const (
	// ComponentFixed amortizes with the standard level-payment formula.
	ComponentFixed ComponentType = "fixed"

	// ComponentHeloc amortizes interest-only through a draw phase, then
	// level payments through a repayment phase.
	ComponentHeloc ComponentType = "heloc"
)

// Component describes one amortizable instrument in the blend.
type Component struct {
	Name      string        `json:"name,omitempty"`
	Amount    float64       `json:"amount"`
	Rate      float64       `json:"rate"`
	TermYears int           `json:"termYears,omitempty"`
	Type      ComponentType `json:"type"`

	// DrawMonths/RepayMonths override the HELOC phase split. They are
	// honored for additional components; the second mortgage always uses
	// the documented defaults.
	DrawMonths  int `json:"drawMonths,omitempty"`
	RepayMonths int `json:"repayMonths,omitempty"`
}

// Params is the full blended-mortgage scenario.
type Params struct {
	HomeValue     float64     `json:"homeValue"`
	DownPayment   float64     `json:"downPayment"`
	MonthlyIncome float64     `json:"monthlyIncome,omitempty"`
	First         Component   `json:"first"`
	Second        *Component  `json:"second,omitempty"`
	Additional    []Component `json:"additional,omitempty"`
}

// ComponentBreakdown is one component's slice of a combined schedule row.
type ComponentBreakdown struct {
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// CombinedRow is one month of the merged schedule. TotalPrincipal always
// reconciles to the sum of the component principals.
type CombinedRow struct {
	PaymentNumber         int                  `json:"paymentNumber"`
	First                 ComponentBreakdown   `json:"firstMortgage"`
	Second                ComponentBreakdown   `json:"secondMortgage"`
	Additional            []ComponentBreakdown `json:"additionalComponents,omitempty"`
	TotalPrincipal        float64              `json:"totalPrincipal"`
	TotalInterest         float64              `json:"totalInterest"`
	TotalPayment          float64              `json:"totalPayment"`
	TotalRemainingBalance float64              `json:"totalRemainingBalance"`
}

// ComponentResult is one component's independent amortization outcome.
type ComponentResult struct {
	Input               Component            `json:"input"`
	MonthlyPayment      float64              `json:"monthlyPayment"`
	InterestOnlyPayment float64              `json:"interestOnlyPayment,omitempty"`
	TotalInterest       float64              `json:"totalInterest"`
	TotalPrincipal      float64              `json:"totalPrincipal"`
	Months              int                  `json:"months"`
	Schedule            []ComponentBreakdown `json:"schedule"`
}

// Assumption documents one implicit default applied during calculation.
type Assumption struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Phase     string `json:"phase"`
	Rationale string `json:"rationale"`
}

// Flags records calculation-wide booleans a UI discloses.
type Flags struct {
	ScheduleIncludesAdditional bool `json:"scheduleIncludesAdditional"`
	NormalizationApplied       bool `json:"normalizationApplied"`
	ZeroRateHandled            bool `json:"zeroRateHandled"`
}

// Comparison reports the blend against a hypothetical single traditional
// mortgage for the same total principal. Purely illustrative.
type Comparison struct {
	TraditionalRate      float64 `json:"traditionalRate"`
	TraditionalMonthlyPI float64 `json:"traditionalMonthlyPI"`
	MonthlyDifference    float64 `json:"monthlyDifference"`
	AnnualDifference     float64 `json:"annualDifference"`
}

// Combined aggregates the blend-wide metrics and merged schedule.
type Combined struct {
	TotalLoanAmount     float64       `json:"totalLoanAmount"`
	TotalMonthlyPayment float64       `json:"totalMonthlyPayment"`
	TotalInterest       float64       `json:"totalInterest"`
	EffectiveRate       float64       `json:"effectiveRate"`
	DTIEstimate         float64       `json:"dtiEstimate,omitempty"`
	Schedule            []CombinedRow `json:"schedule"`
	VsTraditional       Comparison    `json:"vsTraditional"`
}

// LTVMetrics holds the loan-to-value figures for the blend.
type LTVMetrics struct {
	FirstMortgageLTV float64 `json:"firstMortgageLTV"`
	CombinedLTV      float64 `json:"combinedLTV"`
	AvailableEquity  float64 `json:"availableEquity"`
}

// Result is the full blended-mortgage calculation envelope.
type Result struct {
	FirstMortgage        ComponentResult   `json:"firstMortgage"`
	SecondMortgage       *ComponentResult  `json:"secondMortgage,omitempty"`
	AdditionalComponents []ComponentResult `json:"additionalComponents,omitempty"`
	Combined             Combined          `json:"combined"`
	LTV                  LTVMetrics        `json:"ltv"`
	Flags                Flags             `json:"flags"`
	Assumptions          []Assumption      `json:"assumptions"`
}
