package schedule

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestBuildFixedLoanScheduleStandard(t *testing.T) {
	builder := NewBuilder(zap.NewNop())
	result := builder.BuildFixedLoanSchedule(LoanInput{
		Amount:     300000,
		Rate:       6.0,
		TermMonths: 360,
	})

	if len(result.Schedule) == 0 {
		t.Fatal("expected a non-empty schedule")
	}

	final := result.Schedule[len(result.Schedule)-1]
	if final.Balance != 0 {
		t.Errorf("final balance = %.4f, expected exactly 0", final.Balance)
	}

	if math.Abs(result.Totals.TotalPrincipal-300000) > 0.05 {
		t.Errorf("total principal = %.2f, expected 300000 within $0.05", result.Totals.TotalPrincipal)
	}
	if result.Totals.TotalInterest <= 0 {
		t.Error("expected positive total interest")
	}
	if result.Totals.TotalCostPI != result.Totals.TotalPrincipal+result.Totals.TotalInterest {
		t.Errorf("TotalCostPI = %.2f, expected principal+interest = %.2f",
			result.Totals.TotalCostPI, result.Totals.TotalPrincipal+result.Totals.TotalInterest)
	}

	// The annuity payment for this loan is about $1798.65.
	if result.MonthlyPI < 1790 || result.MonthlyPI > 1805 {
		t.Errorf("monthly PI = %.2f, expected around 1799", result.MonthlyPI)
	}
}

func TestBuildFixedLoanSchedulePaymentReconciliation(t *testing.T) {
	builder := NewBuilder(nil)
	result := builder.BuildFixedLoanSchedule(LoanInput{
		Amount:     250000,
		Rate:       7.25,
		TermMonths: 360,
	})

	roundedPI := math.Round(result.MonthlyPI*100) / 100
	for _, row := range result.Schedule[:len(result.Schedule)-1] {
		sum := math.Round((row.PrincipalPayment + row.InterestPayment) * 100) / 100
		if math.Abs(sum-roundedPI) > 0.005 {
			t.Fatalf("row %d principal+interest = %.4f, expected scheduled payment %.2f",
				row.PaymentNumber, sum, roundedPI)
		}
	}
}

func TestBuildFixedLoanSchedulePMIDrop(t *testing.T) {
	builder := NewBuilder(nil)

	// Starting LTV about 90.9%; PMI drops once the balance crosses 80% LTV.
	result := builder.BuildFixedLoanSchedule(LoanInput{
		Amount:         300000,
		Rate:           6.0,
		TermMonths:     360,
		PMIMonthly:     150,
		AppraisedValue: 330000,
	})

	if result.Pmi.Status != PmiDropsAtMonth {
		t.Fatalf("PMI status = %s, expected dropsAtMonth", result.Pmi.Status)
	}
	if result.Pmi.EndsMonth <= 1 {
		t.Errorf("PMI ends month = %d, expected > 1", result.Pmi.EndsMonth)
	}
	if result.Pmi.TotalPaid <= 0 {
		t.Errorf("PMI total paid = %.2f, expected > 0", result.Pmi.TotalPaid)
	}
	if expected := float64(result.Pmi.EndsMonth-1) * 150; math.Abs(result.Pmi.TotalPaid-expected) > 0.01 {
		t.Errorf("PMI total paid = %.2f, expected %d months at $150 = %.2f",
			result.Pmi.TotalPaid, result.Pmi.EndsMonth-1, expected)
	}

	// No PMI charges at or after the end month.
	for _, row := range result.Schedule {
		if row.PaymentNumber >= result.Pmi.EndsMonth && row.PMI != 0 {
			t.Fatalf("row %d still charges PMI after end month %d", row.PaymentNumber, result.Pmi.EndsMonth)
		}
	}
}

func TestBuildFixedLoanSchedulePMISentinel(t *testing.T) {
	builder := NewBuilder(nil)

	tests := []struct {
		name  string
		input LoanInput
	}{
		{
			name: "Low starting LTV",
			input: LoanInput{
				Amount:         200000,
				Rate:           6.0,
				TermMonths:     360,
				PMIMonthly:     150,
				AppraisedValue: 400000,
			},
		},
		{
			name: "Zero loan amount",
			input: LoanInput{
				Amount:         0,
				Rate:           6.0,
				TermMonths:     360,
				PMIMonthly:     150,
				AppraisedValue: 400000,
			},
		},
		{
			name: "No appraisal",
			input: LoanInput{
				Amount:     200000,
				Rate:       6.0,
				TermMonths: 360,
				PMIMonthly: 150,
			},
		},
		{
			name: "No PMI charge",
			input: LoanInput{
				Amount:         300000,
				Rate:           6.0,
				TermMonths:     360,
				AppraisedValue: 330000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := builder.BuildFixedLoanSchedule(tt.input)
			if result.Pmi.Status != PmiNeverCharged {
				t.Errorf("PMI status = %s, expected neverCharged", result.Pmi.Status)
			}
			if result.Pmi.EndsMonth != 1 {
				t.Errorf("PMI ends month = %d, expected 1", result.Pmi.EndsMonth)
			}
			if result.Pmi.TotalPaid != 0 {
				t.Errorf("PMI total paid = %.2f, expected 0", result.Pmi.TotalPaid)
			}
		})
	}
}

func TestBuildFixedLoanSchedulePMINeverDrops(t *testing.T) {
	builder := NewBuilder(nil)

	// A threshold far below any reachable LTV keeps PMI active through the
	// whole schedule.
	result := builder.BuildFixedLoanSchedule(LoanInput{
		Amount:         100000,
		Rate:           6.0,
		TermMonths:     120,
		PMIMonthly:     50,
		AppraisedValue: 105000,
		PMIEndRule:     0.0001,
	})

	if result.Pmi.Status != PmiNeverDrops {
		t.Fatalf("PMI status = %s, expected neverDrops", result.Pmi.Status)
	}
	if result.Pmi.EndsMonth != 0 {
		t.Errorf("PMI ends month = %d, expected the zero value when PMI never drops", result.Pmi.EndsMonth)
	}
	expected := float64(len(result.Schedule)) * 50
	if math.Abs(result.Pmi.TotalPaid-expected) > 0.01 {
		t.Errorf("PMI total paid = %.2f, expected %.2f for every month", result.Pmi.TotalPaid, expected)
	}

	// No month is PMI-free, so serialized metadata carries no end month.
	raw, err := json.Marshal(result.Pmi)
	if err != nil {
		t.Fatalf("failed to serialize PMI metadata: %v", err)
	}
	if strings.Contains(string(raw), "endsMonth") {
		t.Errorf("never-drops metadata serialized an end month: %s", raw)
	}

	dropped := builder.BuildFixedLoanSchedule(LoanInput{
		Amount:         300000,
		Rate:           6.0,
		TermMonths:     360,
		PMIMonthly:     150,
		AppraisedValue: 330000,
	})
	raw, err = json.Marshal(dropped.Pmi)
	if err != nil {
		t.Fatalf("failed to serialize PMI metadata: %v", err)
	}
	if !strings.Contains(string(raw), "endsMonth") {
		t.Errorf("drops-at-month metadata is missing its end month: %s", raw)
	}
}

func TestBuildFixedLoanScheduleExtraPayment(t *testing.T) {
	builder := NewBuilder(nil)

	with := builder.BuildFixedLoanSchedule(LoanInput{
		Amount:     300000,
		Rate:       6.0,
		TermMonths: 360,
		Extra:      200,
	})
	without := builder.BuildFixedLoanSchedule(LoanInput{
		Amount:     300000,
		Rate:       6.0,
		TermMonths: 360,
	})

	if with.ExtraDeltas == nil {
		t.Fatal("expected extra deltas when extra > 0")
	}
	if without.ExtraDeltas != nil {
		t.Error("expected no extra deltas when extra == 0")
	}

	if with.ExtraDeltas.MonthsSaved <= 0 {
		t.Errorf("months saved = %d, expected > 0", with.ExtraDeltas.MonthsSaved)
	}
	if with.ExtraDeltas.InterestSaved <= 0 {
		t.Errorf("interest saved = %.2f, expected > 0", with.ExtraDeltas.InterestSaved)
	}

	if len(with.Schedule) >= len(without.Schedule) {
		t.Errorf("accelerated schedule has %d rows, baseline %d; expected fewer",
			len(with.Schedule), len(without.Schedule))
	}
	if expected := len(without.Schedule) - len(with.Schedule); with.ExtraDeltas.MonthsSaved != expected {
		t.Errorf("months saved = %d, expected %d", with.ExtraDeltas.MonthsSaved, expected)
	}

	final := with.Schedule[len(with.Schedule)-1]
	if final.Balance != 0 {
		t.Errorf("final balance = %.4f, expected exactly 0", final.Balance)
	}
}

func TestBuildFixedLoanScheduleZeroRate(t *testing.T) {
	builder := NewBuilder(nil)
	result := builder.BuildFixedLoanSchedule(LoanInput{
		Amount:     12000,
		Rate:       0,
		TermMonths: 24,
	})

	if !result.ZeroRate {
		t.Error("expected ZeroRate flag")
	}
	if result.Totals.TotalInterest != 0 {
		t.Errorf("total interest = %.2f, expected 0", result.Totals.TotalInterest)
	}
	if result.MonthlyPI != 500 {
		t.Errorf("monthly PI = %.2f, expected 500", result.MonthlyPI)
	}

	distinct := map[float64]bool{}
	for _, row := range result.Schedule {
		distinct[row.PrincipalPayment] = true
	}
	if len(distinct) > 2 {
		t.Errorf("found %d distinct principal values, expected at most 2", len(distinct))
	}
}

func TestBuildFixedLoanScheduleDegenerate(t *testing.T) {
	builder := NewBuilder(nil)

	tests := []struct {
		name  string
		input LoanInput
	}{
		{name: "Zero amount", input: LoanInput{Amount: 0, Rate: 6.0, TermMonths: 360}},
		{name: "Zero term", input: LoanInput{Amount: 100000, Rate: 6.0, TermMonths: 0}},
		{name: "Negative amount", input: LoanInput{Amount: -1, Rate: 6.0, TermMonths: 360}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := builder.BuildFixedLoanSchedule(tt.input)
			if len(result.Schedule) != 0 {
				t.Errorf("expected empty schedule, got %d rows", len(result.Schedule))
			}
			if result.Totals.TotalOutOfPocket != 0 {
				t.Errorf("expected zeroed totals, got %.2f", result.Totals.TotalOutOfPocket)
			}
			if result.Pmi.Status != PmiNeverCharged || result.Pmi.EndsMonth != 1 {
				t.Errorf("expected never-charged PMI sentinel, got %s/%d",
					result.Pmi.Status, result.Pmi.EndsMonth)
			}
		})
	}
}

func TestBuildFixedLoanScheduleEscrowTotals(t *testing.T) {
	builder := NewBuilder(nil)
	result := builder.BuildFixedLoanSchedule(LoanInput{
		Amount:        120000,
		Rate:          6.0,
		TermMonths:    120,
		PropertyTax:   300,
		HomeInsurance: 100,
		HOA:           50,
	})

	months := float64(len(result.Schedule))
	if math.Abs(result.Totals.TotalTax-300*months) > 0.01 {
		t.Errorf("total tax = %.2f, expected %.2f", result.Totals.TotalTax, 300*months)
	}
	if math.Abs(result.Totals.TotalInsurance-100*months) > 0.01 {
		t.Errorf("total insurance = %.2f, expected %.2f", result.Totals.TotalInsurance, 100*months)
	}

	// HOA is tracked but excluded from out-of-pocket.
	expected := result.Totals.TotalCostPI + result.Totals.TotalPMI + result.Totals.TotalTax + result.Totals.TotalInsurance
	if math.Abs(result.Totals.TotalOutOfPocket-expected) > 0.01 {
		t.Errorf("total out of pocket = %.2f, expected %.2f", result.Totals.TotalOutOfPocket, expected)
	}
}

func TestPayoffTimeTotalMonths(t *testing.T) {
	payoff := PayoffTime{Years: 12, Months: 7}
	if payoff.TotalMonths() != 151 {
		t.Errorf("TotalMonths() = %d, expected 151", payoff.TotalMonths())
	}
}
