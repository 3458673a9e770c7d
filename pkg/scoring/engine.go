// Package scoring selects the best loan from a set of computed results
// under a selectable evaluation mode with a deterministic tie-break chain.
package scoring

import (
	"github.com/iwvelando/mortgage-calculator/pkg/schedule"
)

// Mode selects the primary sort key. Lower is better in every mode.
type Mode string

const (
	// ModeTotalOutOfPocket compares totals.totalOutOfPocket (default).
	ModeTotalOutOfPocket Mode = "totalOutOfPocket"

	// ModePrincipalInterest compares totals.totalCostPI.
	ModePrincipalInterest Mode = "principalInterest"

	// ModePayoffSpeed compares the payoff horizon in months.
	ModePayoffSpeed Mode = "payoffSpeed"
)

// primaryScore extracts the mode's sort key from a loan result.
func primaryScore(loan *schedule.LoanResult, mode Mode) float64 {
	switch mode {
	case ModePrincipalInterest:
		return loan.Totals.TotalCostPI
	case ModePayoffSpeed:
		return float64(loan.PayoffTime.TotalMonths())
	default:
		return loan.Totals.TotalOutOfPocket
	}
}

// DetermineBestLoan returns the best candidate under the given mode, or nil
// for an empty input. When the primary score ties, the fixed tie-break
// chain applies regardless of mode: lowest total out of pocket, then lowest
// principal+interest cost, then fewest payoff months, then the
// earlier-indexed candidate. The final stable retention is intentional:
// ties are rare after the first three keys and arbitrary reordering would
// make results non-reproducible.
//
// The winner's evaluation.scoreBasis is annotated with the mode used, but
// only if not already set; this is the engine's one side effect and
// downstream consumers read it.
func DetermineBestLoan(loans []*schedule.LoanResult, mode Mode) *schedule.LoanResult {
	if len(loans) == 0 {
		return nil
	}
	if mode == "" {
		mode = ModeTotalOutOfPocket
	}

	best := loans[0]
	for _, candidate := range loans[1:] {
		if beats(candidate, best, mode) {
			best = candidate
		}
	}

	if best.Evaluation.ScoreBasis == "" {
		best.Evaluation.ScoreBasis = string(mode)
	}
	return best
}

// beats reports whether the candidate strictly beats the incumbent. Exact
// ties on every key retain the incumbent, preserving input order.
func beats(candidate, incumbent *schedule.LoanResult, mode Mode) bool {
	candidateScore := primaryScore(candidate, mode)
	incumbentScore := primaryScore(incumbent, mode)
	if candidateScore != incumbentScore {
		return candidateScore < incumbentScore
	}

	if candidate.Totals.TotalOutOfPocket != incumbent.Totals.TotalOutOfPocket {
		return candidate.Totals.TotalOutOfPocket < incumbent.Totals.TotalOutOfPocket
	}
	if candidate.Totals.TotalCostPI != incumbent.Totals.TotalCostPI {
		return candidate.Totals.TotalCostPI < incumbent.Totals.TotalCostPI
	}
	if candidate.PayoffTime.TotalMonths() != incumbent.PayoffTime.TotalMonths() {
		return candidate.PayoffTime.TotalMonths() < incumbent.PayoffTime.TotalMonths()
	}
	return false
}
