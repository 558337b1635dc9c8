package macro

import "github.com/roach88/strand/internal/rewrite"

// Confluence check budgets. The check is a bounded approximation by
// design: it samples candidate critical strings and bounded-reach
// closures rather than enumerating true critical pairs.
const (
	maxCriticalStrings = 20
	confluenceWidth    = 50
)

// CheckConfluence tests whether adding the macro's rule pair preserves
// local confluence on a bounded search.
//
// Candidate critical strings are a syntactic over-approximation of true
// critical pairs: every pairwise concatenation of left-hand sides in the
// combined system, plus the left-hand sides themselves. For each tested
// string with at least two distinct divergent one-step applications, the
// two successors' bounded-reach closures must share a common descendant.
// A single pair with disjoint closures rejects the macro; exhausting the
// search without a counterexample passes it.
func CheckConfluence(originalRules []rewrite.Rule, m *Macro, searchDepth int) bool {
	combined := combinedRules(originalRules, m)
	engine := rewrite.NewEngine(combined)

	critical := criticalStrings(combined)
	if len(critical) > maxCriticalStrings {
		critical = critical[:maxCriticalStrings]
	}

	for _, s := range critical {
		apps := engine.AllApplications(s)
		if len(apps) < 2 {
			continue // no branching
		}

		// The first two applications sample the divergence.
		r1, r2 := apps[0].Result, apps[1].Result
		if r1 == r2 {
			continue
		}

		reach1 := closure(engine.BoundedReach(r1, searchDepth, confluenceWidth))
		reach2 := closure(engine.BoundedReach(r2, searchDepth, confluenceWidth))

		if !reach1.Intersects(reach2) {
			return false
		}
	}
	return true
}

// criticalStrings generates the candidate critical strings for a rule
// set, in rule order.
func criticalStrings(rules []rewrite.Rule) []rewrite.String {
	var out []rewrite.String
	for _, r1 := range rules {
		for _, r2 := range rules {
			out = append(out, r1.Left.Concat(r2.Left))
		}
	}
	for _, r := range rules {
		out = append(out, r.Left)
	}
	return out
}

// closure flattens a per-level reach map into one set.
func closure(levels map[int]rewrite.StringSet) rewrite.StringSet {
	all := rewrite.NewStringSet()
	for _, level := range levels {
		all.AddAll(level)
	}
	return all
}

// combinedRules appends the macro's rule pair to a copy of the original
// rule list.
func combinedRules(originalRules []rewrite.Rule, m *Macro) []rewrite.Rule {
	combined := make([]rewrite.Rule, 0, len(originalRules)+2)
	combined = append(combined, originalRules...)
	combined = append(combined, m.Rules()...)
	return combined
}
