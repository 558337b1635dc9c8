package macro

import (
	"fmt"
	"sort"

	"github.com/roach88/strand/internal/rewrite"
)

// PatternCandidate is a mined pattern with its derived statistics.
// Candidates are ephemeral analysis artifacts; only a macro built from
// one is ever persisted.
type PatternCandidate struct {
	Pattern rewrite.String
	// Frequency counts occurrences across all substrings of the
	// component's members.
	Frequency int
	// Stability is the fraction of members containing the pattern.
	Stability float64
	// Score ranks candidates: frequency × stability, weighted slightly
	// toward longer patterns.
	Score float64
}

// String implements fmt.Stringer.
func (c PatternCandidate) String() string {
	return fmt.Sprintf("'%s' (freq=%d, stab=%.2f, score=%.2f)", c.Pattern, c.Frequency, c.Stability, c.Score)
}

// minFrequency discards patterns occurring only once.
const minFrequency = 2

// ExtractSubstrings returns every contiguous substring of s with length
// in [minLen, maxLen], in scan order (lengths ascending, positions
// ascending).
func ExtractSubstrings(s rewrite.String, minLen, maxLen int) []rewrite.String {
	var subs []rewrite.String
	n := s.Len()
	for length := minLen; length <= maxLen; length++ {
		for i := 0; i+length <= n; i++ {
			subs = append(subs, s.Slice(i, i+length))
		}
	}
	return subs
}

// AnalyzeSCC mines pattern candidates from the members of one strongly
// connected component. Patterns below the frequency floor are discarded;
// the rest are scored score = frequency × stability × (1 + 0.1×len) and
// returned in descending score order. The sort is stable, so equal
// scores keep first-occurrence (counting) order.
func AnalyzeSCC(members []rewrite.String, minLen, maxLen int) []PatternCandidate {
	counts := make(map[rewrite.String]int)
	var order []rewrite.String

	for _, member := range members {
		for _, sub := range ExtractSubstrings(member, minLen, maxLen) {
			if counts[sub] == 0 {
				order = append(order, sub)
			}
			counts[sub]++
		}
	}

	var candidates []PatternCandidate
	for _, pattern := range order {
		frequency := counts[pattern]
		if frequency < minFrequency {
			continue
		}

		containing := 0
		for _, member := range members {
			if member.ContainsSubstring(pattern) {
				containing++
			}
		}
		stability := float64(containing) / float64(len(members))
		score := float64(frequency) * stability * (1 + 0.1*float64(pattern.Len()))

		candidates = append(candidates, PatternCandidate{
			Pattern:   pattern,
			Frequency: frequency,
			Stability: stability,
			Score:     score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
