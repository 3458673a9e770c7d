// Package output provides utilities for formatting and displaying
// calculation results as human-readable tables or CSV.
package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/blended"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/heloc"
	"github.com/iwvelando/mortgage-calculator/pkg/schedule"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// HelocCSVHeader is the fixed header row for HELOC schedule exports.
// Downstream consumers depend on these column names; do not reorder.
const HelocCSVHeader = "Payment #,Payment Date,Phase,Payment Amount,Principal,Interest,Balance,Cumulative Principal,Cumulative Interest"

// ScheduleCSV renders a schedule in comma-separated value format with the
// documented header row.
func ScheduleCSV(rows []amortization.ScheduleRow) string {
	var builder strings.Builder
	builder.WriteString(HelocCSVHeader)
	builder.WriteString("\n")
	for _, row := range rows {
		builder.WriteString(fmt.Sprintf("%d,%s,%s,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f\n",
			row.PaymentNumber,
			datetime.FormatMonth(row.PaymentDate),
			row.Phase,
			row.Payment,
			row.PrincipalPayment,
			row.InterestPayment,
			row.Balance,
			row.CumulativePrincipal,
			row.CumulativeInterest,
		))
	}
	return builder.String()
}

// PrettyLoanSummary prints a human-readable summary for one fixed loan.
func PrettyLoanSummary(result schedule.LoanResult) {
	p := message.NewPrinter(language.English)
	name := result.Input.Name
	if name == "" {
		name = "loan"
	}
	fmt.Printf("--- Results for %s ---\n", name)
	_, _ = p.Printf("Monthly P&I        | %s\n", format.Currency(result.MonthlyPI))
	_, _ = p.Printf("Monthly total      | %s\n", format.Currency(result.MonthlyTotal))
	_, _ = p.Printf("Total interest     | %s\n", format.Currency(result.Totals.TotalInterest))
	_, _ = p.Printf("Total out of pocket| %s\n", format.Currency(result.Totals.TotalOutOfPocket))
	fmt.Printf("Payoff             | %d years %d months\n", result.PayoffTime.Years, result.PayoffTime.Months)

	switch result.Pmi.Status {
	case schedule.PmiDropsAtMonth:
		_, _ = p.Printf("PMI                | %s total, drops at month %d\n",
			format.Currency(result.Pmi.TotalPaid), result.Pmi.EndsMonth)
	case schedule.PmiNeverDrops:
		_, _ = p.Printf("PMI                | %s total, never drops\n", format.Currency(result.Pmi.TotalPaid))
	default:
		fmt.Printf("PMI                | not charged\n")
	}

	if result.ExtraDeltas != nil {
		_, _ = p.Printf("Extra payments     | %s interest saved, %d months saved\n",
			format.Currency(result.ExtraDeltas.InterestSaved), result.ExtraDeltas.MonthsSaved)
	}
	fmt.Printf("\n")
}

// PrettyHelocSummary prints a human-readable summary for a HELOC analysis.
func PrettyHelocSummary(result *heloc.AnalysisResult) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- HELOC analysis ---\n")
	_, _ = p.Printf("Interest-only payment | %s\n", format.Currency(result.Payments.InterestOnly))
	_, _ = p.Printf("P&I payment           | %s\n", format.Currency(result.Payments.PrincipalInterest))
	_, _ = p.Printf("Draw interest         | %s\n", format.Currency(result.Totals.DrawInterest))
	_, _ = p.Printf("Repayment interest    | %s\n", format.Currency(result.Totals.RepaymentInterest))
	_, _ = p.Printf("Combined LTV          | %s\n", format.Percent(result.LTV.CombinedLTV))
	_, _ = p.Printf("Available equity      | %s\n", format.Currency(result.LTV.AvailableEquity))
	fmt.Printf("Payoff                | %s\n", datetime.FormatMonth(result.PayoffDate))
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	fmt.Printf("\n")
}

// PrettyBlendedSummary prints a human-readable summary for a blended
// mortgage calculation.
func PrettyBlendedSummary(result *blended.Result) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Blended mortgage ---\n")
	_, _ = p.Printf("Total loan amount     | %s\n", format.Currency(result.Combined.TotalLoanAmount))
	_, _ = p.Printf("Total monthly payment | %s\n", format.Currency(result.Combined.TotalMonthlyPayment))
	_, _ = p.Printf("Total interest        | %s\n", format.Currency(result.Combined.TotalInterest))
	_, _ = p.Printf("Effective rate        | %s\n", format.Percent(result.Combined.EffectiveRate))
	_, _ = p.Printf("Combined LTV          | %s\n", format.Percent(result.LTV.CombinedLTV))
	_, _ = p.Printf("vs traditional (7%%)   | %s/month\n", format.Currency(result.Combined.VsTraditional.MonthlyDifference))
	for _, assumption := range result.Assumptions {
		fmt.Printf("Assumption %s: %s\n", assumption.Key, assumption.Value)
	}
	fmt.Printf("\n")
}

// BlendedScheduleCSV renders a combined blended schedule as CSV.
func BlendedScheduleCSV(rows []blended.CombinedRow) string {
	var builder strings.Builder
	builder.WriteString("Payment #,Total Principal,Total Interest,Total Payment,Total Remaining Balance\n")
	for _, row := range rows {
		builder.WriteString(fmt.Sprintf("%d,%.2f,%.2f,%.2f,%.2f\n",
			row.PaymentNumber,
			row.TotalPrincipal,
			row.TotalInterest,
			row.TotalPayment,
			row.TotalRemainingBalance,
		))
	}
	return builder.String()
}
