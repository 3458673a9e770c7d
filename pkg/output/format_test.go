package output

import (
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/blended"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
)

func TestScheduleCSVHeader(t *testing.T) {
	expected := "Payment #,Payment Date,Phase,Payment Amount,Principal,Interest,Balance,Cumulative Principal,Cumulative Interest"
	if HelocCSVHeader != expected {
		t.Errorf("header = %q, expected %q", HelocCSVHeader, expected)
	}
}

func TestScheduleCSV(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateTimeLayout, "2026-01")
	rows := []amortization.ScheduleRow{
		{
			PaymentNumber:       1,
			PaymentDate:         datetime.MonthOffset(start, 1),
			Phase:               amortization.PhaseInterestOnly,
			Payment:             333.33,
			InterestPayment:     333.33,
			Balance:             50000,
			CumulativeInterest:  333.33,
		},
		{
			PaymentNumber:       2,
			PaymentDate:         datetime.MonthOffset(start, 2),
			Phase:               amortization.PhasePrincipalInterest,
			Payment:             606.64,
			PrincipalPayment:    273.31,
			InterestPayment:     333.33,
			Balance:             49726.69,
			CumulativePrincipal: 273.31,
			CumulativeInterest:  666.66,
		},
	}

	csv := ScheduleCSV(rows)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV has %d lines, expected header plus two rows", len(lines))
	}
	if lines[0] != HelocCSVHeader {
		t.Errorf("first line = %q, expected the header", lines[0])
	}
	if lines[1] != "1,2026-02,Interest-Only,333.33,0.00,333.33,50000.00,0.00,333.33" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2,2026-03,Principal & Interest,606.64,273.31,333.33,49726.69,273.31,666.66" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestBlendedScheduleCSV(t *testing.T) {
	rows := []blended.CombinedRow{
		{
			PaymentNumber:         1,
			TotalPrincipal:        500.25,
			TotalInterest:         2100.75,
			TotalPayment:          2601,
			TotalRemainingBalance: 419499.75,
		},
	}

	csv := BlendedScheduleCSV(rows)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("CSV has %d lines, expected header plus one row", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Payment #,") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1,500.25,2100.75,2601.00,419499.75" {
		t.Errorf("row = %q", lines[1])
	}
}
