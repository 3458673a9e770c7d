// Package amortization provides the core schedule math shared by every
// calculator: fixed-rate level-payment amortization and the two-phase
// HELOC draw/repayment schedule.
package amortization

import "time"

// Phase identifies which repayment phase a schedule row belongs to.
type Phase string

const (
	// PhaseInterestOnly marks draw-phase rows where no principal is paid.
	PhaseInterestOnly Phase = "Interest-Only"

	// PhasePrincipalInterest marks amortizing rows.
	PhasePrincipalInterest Phase = "Principal & Interest"
)

// ScheduleRow holds one month's payment record.
type ScheduleRow struct {
	PaymentNumber       int       `json:"paymentNumber"`
	PaymentDate         time.Time `json:"paymentDate"`
	Phase               Phase     `json:"phase,omitempty"`
	Payment             float64   `json:"payment"`
	PrincipalPayment    float64   `json:"principalPayment"`
	InterestPayment     float64   `json:"interestPayment"`
	Balance             float64   `json:"balance"`
	CumulativePrincipal float64   `json:"cumulativePrincipal,omitempty"`
	CumulativeInterest  float64   `json:"cumulativeInterest,omitempty"`
	PMI                 float64   `json:"pmi,omitempty"`
}
