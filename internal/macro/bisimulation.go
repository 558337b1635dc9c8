package macro

import (
	"strings"

	"github.com/roach88/strand/internal/rewrite"
)

// Bisimulation check budgets.
const (
	maxBisimTests   = 10
	bisimWidth      = 30
	maxTestStringLn = 5
)

// CheckBisimulation compares the old system and the macro-extended system
// on a small generated set of test strings: short runs of '0' and
// alternating "0|" patterns up to maxLength. For each test string, both
// systems' bounded-reach sets at exactly level maxDepth are compared;
// behavior is judged divergent when the symmetric difference exceeds half
// the old set's size. This is a sampling heuristic, not an exhaustive
// equivalence proof.
func CheckBisimulation(originalRules []rewrite.Rule, m *Macro, maxLength, maxDepth int) bool {
	engineOld := rewrite.NewEngine(originalRules)
	engineNew := rewrite.NewEngine(combinedRules(originalRules, m))

	tests := generateTestStrings(maxLength)
	if len(tests) > maxBisimTests {
		tests = tests[:maxBisimTests]
	}

	for _, s := range tests {
		finalOld := engineOld.BoundedReach(s, maxDepth, bisimWidth)[maxDepth]
		finalNew := engineNew.BoundedReach(s, maxDepth, bisimWidth)[maxDepth]
		if finalOld == nil {
			finalOld = rewrite.NewStringSet()
		}
		if finalNew == nil {
			finalNew = rewrite.NewStringSet()
		}

		// Integer form of |Δ| > |old| × 0.5.
		if 2*finalOld.SymmetricDifferenceSize(finalNew) > len(finalOld) {
			return false
		}
	}
	return true
}

// generateTestStrings builds the sample inputs: 0^k for each k up to the
// length bound, plus the alternating pattern for k >= 2.
func generateTestStrings(maxLength int) []rewrite.String {
	limit := maxLength
	if limit > maxTestStringLn {
		limit = maxTestStringLn
	}

	var out []rewrite.String
	for length := 1; length <= limit; length++ {
		out = append(out, rewrite.NewString(strings.Repeat("0", length)))
		if length >= 2 {
			out = append(out, rewrite.NewString(strings.Repeat("0|", length/2)))
		}
	}
	return out
}
